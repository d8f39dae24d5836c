package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/logging"
	"github.com/op47/clipchat/internal/server/models"
	"github.com/op47/clipchat/internal/server/repositories/repomanager"
)

type WikiService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewWikiService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *WikiService {
	return &WikiService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "wiki_service"),
	}
}

func (s *WikiService) ListTitles(ctx context.Context) ([]string, error) {

	titles, err := s.repomanager.WikiPages(s.db).ListTitles(ctx)
	if err != nil {
		s.logger.Error(ctx, "title list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return titles, nil
}

func (s *WikiService) GetPage(ctx context.Context, title string) (*models.WikiPage, error) {

	if title == "" {
		return nil, common.ErrorValidation
	}

	page, err := s.repomanager.WikiPages(s.db).GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "page lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return page, nil
}

// CreatePage inserts a new page. The title is stored trimmed; a concurrent
// create of the same title resolves at the unique constraint.
func (s *WikiService) CreatePage(ctx context.Context, title, content string) (*models.WikiPage, error) {

	title = strings.TrimSpace(title)
	if title == "" || content == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.WikiPages(s.db)

	_, err := repo.GetByTitle(ctx, title)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "page lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	page, err := repo.Create(ctx, &models.WikiPage{Title: title, Content: content})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "page insert failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return page, nil
}
