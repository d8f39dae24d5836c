package users

import (
	"context"

	"github.com/op47/clipchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}
