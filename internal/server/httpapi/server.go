package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/op47/clipchat/internal/logging"
	"github.com/op47/clipchat/internal/server/models"
)

const shutdownTimeout = 5 * time.Second

// Version is reported by the banner endpoint. Overridden at build time via
// -ldflags "-X .../httpapi.Version=...".
var Version = "dev"

// AuthProvider covers registration, login and token lifecycle.
type AuthProvider interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(ctx context.Context, rawToken string) (*models.User, error)
	RevokeToken(ctx context.Context, rawToken string) error
}

// WikiProvider covers wiki page listing, lookup and creation.
type WikiProvider interface {
	ListTitles(ctx context.Context) ([]string, error)
	GetPage(ctx context.Context, title string) (*models.WikiPage, error)
	CreatePage(ctx context.Context, title, content string) (*models.WikiPage, error)
}

// ClipProvider covers clip archiving and media access.
type ClipProvider interface {
	InsertFromURL(ctx context.Context, rawURL, author string) (*models.Clip, error)
	RemoveByURL(ctx context.Context, rawURL string) error
	ListByDate(ctx context.Context, dateParam string) ([]*models.Clip, error)
	CreateUploadURL(ctx context.Context, clipID int64) (string, error)
	GetDownloadURL(ctx context.Context, clipID int64) (string, error)
}

// MessageProvider covers chat message recording and retrieval.
type MessageProvider interface {
	Insert(ctx context.Context, unixSec int64, channel, user, content, displayName string) error
	ListRecent(ctx context.Context, channelName string) ([]*models.Message, error)
	ListSince(ctx context.Context, channelName string, unixMilli int64) ([]*models.Message, error)
}

type Server struct {
	address    string
	logger     logging.Logger
	auth       AuthProvider
	wiki       WikiProvider
	clips      ClipProvider
	messages   MessageProvider
	httpServer *http.Server
}

func NewServer(address string, logger logging.Logger, auth AuthProvider,
	wiki WikiProvider, clips ClipProvider, messages MessageProvider) *Server {
	s := &Server{
		address:  address,
		logger:   logger,
		auth:     auth,
		wiki:     wiki,
		clips:    clips,
		messages: messages,
	}
	s.httpServer = &http.Server{Addr: address, Handler: s.Router()}
	return s
}

// Router builds the full route table. Exposed so tests can drive handlers
// through httptest without opening a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("", s.handleBanner).Methods(http.MethodGet)
	v1.HandleFunc("/", s.handleBanner).Methods(http.MethodGet)

	v1.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	v1.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	v1.Handle("/auth/logout", s.requireAuth(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)

	// Reads stay public; every mutation goes through requireAuth.
	v1.HandleFunc("/wiki/pages", s.handleWikiTitles).Methods(http.MethodGet)
	v1.HandleFunc("/wiki/page/{title}", s.handleWikiPage).Methods(http.MethodGet)
	v1.Handle("/wiki/create", s.requireAuth(http.HandlerFunc(s.handleWikiCreate))).Methods(http.MethodPost)

	v1.Handle("/insertClip", s.requireAuth(http.HandlerFunc(s.handleInsertClip))).Methods(http.MethodPost)
	v1.Handle("/removeClip", s.requireAuth(http.HandlerFunc(s.handleRemoveClip))).Methods(http.MethodDelete)
	v1.HandleFunc("/clips/{date}", s.handleClipsByDate).Methods(http.MethodGet)
	v1.Handle("/clips/{id}/media/upload-url", s.requireAuth(http.HandlerFunc(s.handleClipUploadURL))).Methods(http.MethodPost)
	v1.Handle("/clips/{id}/media/download-url", s.requireAuth(http.HandlerFunc(s.handleClipDownloadURL))).Methods(http.MethodGet)

	tw := v1.PathPrefix("/twitch").Subrouter()
	tw.HandleFunc("/messages/{channel}", s.handleMessages).Methods(http.MethodGet)
	tw.HandleFunc("/messages/{channel}/since/{timestamp}", s.handleMessagesSince).Methods(http.MethodGet)
	tw.Handle("/insertMessage", s.requireAuth(http.HandlerFunc(s.handleInsertMessage))).Methods(http.MethodPost)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server starting", "address", s.address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
