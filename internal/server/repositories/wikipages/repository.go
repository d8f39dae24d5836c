package wikipages

import (
	"context"

	"github.com/op47/clipchat/internal/server/models"
)

type Repository interface {
	ListTitles(ctx context.Context) ([]string, error)
	GetByTitle(ctx context.Context, title string) (*models.WikiPage, error)
	Create(ctx context.Context, page *models.WikiPage) (*models.WikiPage, error)
}
