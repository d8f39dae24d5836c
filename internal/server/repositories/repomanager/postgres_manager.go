package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/op47/clipchat/internal/dbx"
	"github.com/op47/clipchat/internal/server/migrations"
	"github.com/op47/clipchat/internal/server/repositories/authtokens"
	"github.com/op47/clipchat/internal/server/repositories/clips"
	"github.com/op47/clipchat/internal/server/repositories/messages"
	"github.com/op47/clipchat/internal/server/repositories/users"
	"github.com/op47/clipchat/internal/server/repositories/wikipages"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// OpenDB opens the pgx stdlib pool for the given DSN.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AuthTokens(db dbx.DBTX) authtokens.Repository {
	return authtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) WikiPages(db dbx.DBTX) wikipages.Repository {
	return wikipages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Clips(db dbx.DBTX) clips.Repository {
	return clips.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
