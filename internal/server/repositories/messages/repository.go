package messages

import (
	"context"
	"time"

	"github.com/op47/clipchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListSince(ctx context.Context, channel string, since time.Time) ([]*models.Message, error)
}
