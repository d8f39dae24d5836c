package clips

import (
	"context"
	"time"

	"github.com/op47/clipchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, clip *models.Clip) (*models.Clip, error)
	CreateAggregate(ctx context.Context, agg *models.ClipAggregate) error
	GetByID(ctx context.Context, id int64) (*models.Clip, error)
	DeleteByURL(ctx context.Context, url string) error
	ListByDate(ctx context.Context, date time.Time) ([]*models.Clip, error)
	SetStorageKey(ctx context.Context, id int64, key string) error
}
