package wikipages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) ListTitles(ctx context.Context) ([]string, error) {

	query :=
		`SELECT title FROM wiki_pages ORDER BY title
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return titles, nil
}

func (r *PostgresRepository) GetByTitle(ctx context.Context, title string) (*models.WikiPage, error) {
	query :=
		`SELECT id, title, content, created_at FROM wiki_pages
		 WHERE title = $1
		 `

	page := &models.WikiPage{}
	err := r.db.QueryRowContext(ctx, query, title).
		Scan(&page.ID, &page.Title, &page.Content, &page.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return page, nil
}

func (r *PostgresRepository) Create(ctx context.Context, page *models.WikiPage) (*models.WikiPage, error) {

	query :=
		`INSERT INTO wiki_pages (title, content)
         VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, page.Title, page.Content).
		Scan(&page.ID, &page.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return page, nil
}
