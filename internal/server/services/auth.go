// Package services implements the application services sitting between the
// HTTP layer and the repositories. Services translate repository errors
// into the shared sentinel taxonomy; raw driver errors are logged here and
// never escape to the transport layer.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/logging"
	"github.com/op47/clipchat/internal/server/auth"
	"github.com/op47/clipchat/internal/server/models"
	"github.com/op47/clipchat/internal/server/repositories/repomanager"
)

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "auth_service"),
	}
}

// Register creates a new user and returns a freshly issued bearer token.
// Token issuance is delegated to Login so that registration and login share
// exactly one issuance path. If issuance fails after the user row was
// inserted, the user row remains; a later login will still succeed.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {

	if username == "" || password == "" {
		return "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return "", common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "username lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	_, err = repo.Create(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// Lost the race to a concurrent registration.
			return "", common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user insert failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return s.Login(ctx, username, password)
}

// Login verifies the credentials and issues a new bearer token. Unknown
// username and wrong password both return ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {

	if username == "" || password == "" {
		return "", common.ErrorValidation
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrorInvalidCredentials
	}

	return s.issueToken(ctx, user.ID)
}

// ValidateToken resolves the owner of a raw bearer token. It never mutates
// token state.
func (s *AuthService) ValidateToken(ctx context.Context, rawToken string) (*models.User, error) {

	if rawToken == "" {
		return nil, common.ErrorUnauthorized
	}

	digest := auth.DigestToken(rawToken)

	user, err := s.repomanager.AuthTokens(s.db).FindUserByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "token lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return user, nil
}

// RevokeToken deletes the token row matching the raw token's digest.
// Revoking an unknown or already-revoked token returns ErrorNotFound;
// logout callers treat that as non-fatal.
func (s *AuthService) RevokeToken(ctx context.Context, rawToken string) error {

	if rawToken == "" {
		return common.ErrorValidation
	}

	digest := auth.DigestToken(rawToken)

	err := s.repomanager.AuthTokens(s.db).DeleteByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "token delete failed", "error", err.Error())
		return common.ErrorInternal
	}

	return nil
}

// issueToken generates a token for the given user and persists its digest.
// The user id is re-checked first, defending against the row disappearing
// between the caller's lookup and the insert.
func (s *AuthService) issueToken(ctx context.Context, userID int64) (string, error) {

	exists, err := s.repomanager.Users(s.db).ExistsByID(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "user existence check failed", "error", err.Error())
		return "", common.ErrorInternal
	}
	if !exists {
		return "", common.ErrorNotFound
	}

	raw, digest, err := auth.IssueToken()
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	if err := s.repomanager.AuthTokens(s.db).Create(ctx, userID, digest); err != nil {
		s.logger.Error(ctx, "token insert failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	return raw, nil
}
