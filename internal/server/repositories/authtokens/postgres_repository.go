package authtokens

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, userID int64, digest string) error {

	query :=
		`INSERT INTO auth_tokens (user_id, token)
         VALUES ($1, $2)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, digest)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// FindUserByDigest resolves the owner of a token digest via the
// users×auth_tokens join. The token column is unique, but anything other
// than exactly one row is still treated as not found rather than assumed
// impossible.
func (r *PostgresRepository) FindUserByDigest(ctx context.Context, digest string) (*models.User, error) {
	query :=
		`SELECT users.id, users.username, users.password_hash, users.created_at
		 FROM users
		 JOIN auth_tokens ON auth_tokens.user_id = users.id
		 WHERE auth_tokens.token = $1
		 LIMIT 2
		 `

	rows, err := r.db.QueryContext(ctx, query, digest)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var matched []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		matched = append(matched, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(matched) != 1 {
		return nil, common.ErrorNotFound
	}

	return matched[0], nil
}

func (r *PostgresRepository) DeleteByDigest(ctx context.Context, digest string) error {

	query :=
		`DELETE FROM auth_tokens WHERE token = $1
		 `

	res, err := r.db.ExecContext(ctx, query, digest)
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
