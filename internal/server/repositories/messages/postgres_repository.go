package messages

import (
	"context"
	"fmt"
	"time"

	"github.com/op47/clipchat/internal/dbx"
	"github.com/op47/clipchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) error {

	query :=
		`INSERT INTO messages (timestamp, channel, "user", content, display_name)
         VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		msg.Timestamp, msg.Channel, msg.User, msg.Content, msg.DisplayName)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListSince(ctx context.Context, channel string, since time.Time) ([]*models.Message, error) {

	query :=
		`SELECT id, timestamp, channel, "user", content, display_name
		 FROM messages
		 WHERE channel = $1 AND timestamp > $2
		 ORDER BY timestamp
		 `

	rows, err := r.db.QueryContext(ctx, query, channel, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Message{}
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.Timestamp, &msg.Channel, &msg.User,
			&msg.Content, &msg.DisplayName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
