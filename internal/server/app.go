// Package server initializes and runs the application: it opens the
// database, applies migrations, wires the services together and starts the
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/op47/clipchat/internal/logging"
	"github.com/op47/clipchat/internal/server/config"
	"github.com/op47/clipchat/internal/server/httpapi"
	"github.com/op47/clipchat/internal/server/notify"
	"github.com/op47/clipchat/internal/server/repositories/repomanager"
	"github.com/op47/clipchat/internal/server/services"
	"github.com/op47/clipchat/internal/server/twitch"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	authService    *services.AuthService
	wikiService    *services.WikiService
	clipService    *services.ClipService
	messageService *services.MessageService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	fetcher := twitch.NewClient(cfg.TwitchAPIBaseURL, cfg.TwitchClientID, cfg.TwitchOAuthToken)
	notifier := notify.NewWebhook(cfg.WebhookBaseURL, logger)

	cs, err := services.NewClipService(db, rm, cfg, fetcher, notifier, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		authService:    services.NewAuthService(db, rm, logger),
		wikiService:    services.NewWikiService(db, rm, logger),
		clipService:    cs,
		messageService: services.NewMessageService(db, rm, notifier, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.authService, app.wikiService, app.clipService, app.messageService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
