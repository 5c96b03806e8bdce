package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quizhub/internal/certificate"
	"quizhub/internal/config"
	"quizhub/internal/content"
	"quizhub/internal/logging"
	"quizhub/internal/server"
	"quizhub/internal/session"
	ws "quizhub/pkg/http/ws"
)

// Application aggregates shared infrastructure (content source, cache,
// HTTP server, background workers).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	db    *sql.DB
	redis *redis.Client
	http  *http.Server

	sweeper   *session.Sweeper
	bgCancels []context.CancelFunc
}

// New bootstraps config, logger, content backend and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	var (
		db  *sql.DB
		src content.Source
	)
	switch cfg.Content.Backend {
	case "fs":
		src = content.NewFSSource(cfg.Content.Dir)
		logger.Info().Str("dir", cfg.Content.Dir).Msg("serving quizzes from directory")
	case "sql":
		var err error
		db, err = content.OpenDB(cfg.Content.Driver, cfg.Content.DSN)
		if err != nil {
			return nil, fmt.Errorf("open content database: %w", err)
		}
		src = content.NewSQLSource(db)
		logger.Info().Str("driver", cfg.Content.Driver).Msg("serving quizzes from database")
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.Content.Backend)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		src = content.NewCachedSource(src, content.NewRedisListCache(redisClient, cfg.Content.CatalogTTL))
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("catalog cache enabled")
	}

	contentHandlers := content.NewHTTPHandlers(src, logger)

	wsHub := ws.NewHub(logger)
	manager := session.NewManager(src, cfg.Session.IdleTimeout, logger)
	renderer := certificate.NewPNGRenderer(cfg.Certificate.FontPath, logger)
	sessionHandlers := session.NewHTTPHandlers(manager, renderer, wsHub, logger)
	sweeper := session.NewSweeper(manager, wsHub, cfg.Session.SweepInterval, logger)

	apiServer := server.NewHTTPServer(cfg, logger, db, redisClient, contentHandlers, sessionHandlers.HandleSessions)

	return &Application{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		http:      apiServer,
		sweeper:   sweeper,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("database shutdown error")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.sweeper != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.sweeper.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("session sweeper stopped")
			}
		}()
	}
}
