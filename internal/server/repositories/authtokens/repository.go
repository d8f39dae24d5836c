package authtokens

import (
	"context"

	"github.com/op47/clipchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, digest string) error
	FindUserByDigest(ctx context.Context, digest string) (*models.User, error)
	DeleteByDigest(ctx context.Context, digest string) error
}
