package clips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/dbx"
	"github.com/op47/clipchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, clip *models.Clip) (*models.Clip, error) {

	query :=
		`INSERT INTO clips (created_at, url, title, channel, creator_name)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		clip.CreatedAt, clip.URL, clip.Title, clip.Channel, clip.CreatorName).Scan(&clip.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return clip, nil
}

func (r *PostgresRepository) CreateAggregate(ctx context.Context, agg *models.ClipAggregate) error {

	query :=
		`INSERT INTO clips_aggregate (id, views, author)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, agg.ID, agg.Views, agg.Author)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Clip, error) {
	query :=
		`SELECT id, created_at, url, title, channel, creator_name, COALESCE(storage_key, '')
		 FROM clips
		 WHERE id = $1
		 `

	clip := &models.Clip{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&clip.ID, &clip.CreatedAt, &clip.URL, &clip.Title, &clip.Channel,
			&clip.CreatorName, &clip.StorageKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return clip, nil
}

// DeleteByURL removes the clip row; the aggregate row follows via the
// foreign-key cascade.
func (r *PostgresRepository) DeleteByURL(ctx context.Context, url string) error {

	query :=
		`DELETE FROM clips WHERE url = $1
		 `

	res, err := r.db.ExecContext(ctx, query, url)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ListByDate(ctx context.Context, date time.Time) ([]*models.Clip, error) {

	query :=
		`SELECT id, created_at, url, title, channel, creator_name, COALESCE(storage_key, '')
		 FROM clips
		 WHERE created_at = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Clip{}
	for rows.Next() {
		clip := &models.Clip{}
		if err := rows.Scan(&clip.ID, &clip.CreatedAt, &clip.URL, &clip.Title,
			&clip.Channel, &clip.CreatorName, &clip.StorageKey); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetStorageKey(ctx context.Context, id int64, key string) error {

	query :=
		`UPDATE clips SET storage_key = $2 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
