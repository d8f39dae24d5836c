package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/logging"
	"github.com/op47/clipchat/internal/server/models"
	"github.com/op47/clipchat/internal/server/notify"
	"github.com/op47/clipchat/internal/server/repositories/repomanager"
)

// recentWindow bounds the default message history returned per channel.
const recentWindow = 3 * 24 * time.Hour

type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    *notify.Webhook
	logger      logging.Logger
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, notifier *notify.Webhook, logger logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
		notifier:    notifier,
		logger:      logger.With("module", "message_service"),
	}
}

// NormalizeChannel maps a route parameter to the stored channel form:
// lowercase with a leading "#".
func NormalizeChannel(name string) string {
	return "#" + strings.ToLower(name)
}

// Insert records a chat line. The timestamp arrives as unix seconds from
// the chat collector. The community site is pinged asynchronously.
func (s *MessageService) Insert(ctx context.Context, unixSec int64, channel, user, content, displayName string) error {

	if unixSec == 0 || channel == "" || user == "" || content == "" || displayName == "" {
		return common.ErrorValidation
	}

	msg := &models.Message{
		Timestamp:   time.Unix(unixSec, 0).UTC(),
		Channel:     channel,
		User:        user,
		Content:     content,
		DisplayName: displayName,
	}

	if err := s.repomanager.Messages(s.db).Create(ctx, msg); err != nil {
		s.logger.Error(ctx, "message insert failed", "error", err.Error())
		return common.ErrorInternal
	}

	go s.notifier.NewMessage(context.WithoutCancel(ctx), channel)

	return nil
}

// ListRecent returns a channel's messages from the last three days.
func (s *MessageService) ListRecent(ctx context.Context, channelName string) ([]*models.Message, error) {
	return s.listSince(ctx, channelName, time.Now().Add(-recentWindow))
}

// ListSince returns a channel's messages newer than the given unix
// millisecond timestamp.
func (s *MessageService) ListSince(ctx context.Context, channelName string, unixMilli int64) ([]*models.Message, error) {
	return s.listSince(ctx, channelName, time.UnixMilli(unixMilli).UTC())
}

func (s *MessageService) listSince(ctx context.Context, channelName string, since time.Time) ([]*models.Message, error) {

	if channelName == "" {
		return nil, common.ErrorValidation
	}

	result, err := s.repomanager.Messages(s.db).ListSince(ctx, NormalizeChannel(channelName), since)
	if err != nil {
		s.logger.Error(ctx, "message list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return result, nil
}
