package repomanager

import (
	"context"
	"database/sql"

	"github.com/op47/clipchat/internal/dbx"
	"github.com/op47/clipchat/internal/server/repositories/authtokens"
	"github.com/op47/clipchat/internal/server/repositories/clips"
	"github.com/op47/clipchat/internal/server/repositories/messages"
	"github.com/op47/clipchat/internal/server/repositories/users"
	"github.com/op47/clipchat/internal/server/repositories/wikipages"
)

// RepositoryManager hands out repositories bound to a handle, which may be
// the pooled *sql.DB or a transaction started via dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	AuthTokens(db dbx.DBTX) authtokens.Repository
	WikiPages(db dbx.DBTX) wikipages.Repository
	Clips(db dbx.DBTX) clips.Repository
	Messages(db dbx.DBTX) messages.Repository
}
