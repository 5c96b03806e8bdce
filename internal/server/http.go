package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quizhub/internal/config"
	"quizhub/internal/content"
	httperrors "quizhub/pkg/http/errors"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: implement proper origin checking for production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires base routes (health, metrics) for the API service.
// db and redisClient may be nil when the filesystem backend runs without
// a cache; nil handlers leave their routes unregistered.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, db *sql.DB, redisClient *redis.Client, contentHandlers *content.HTTPHandlers, sessionsHandler http.HandlerFunc) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	// Readiness probe covering the optional backing stores.
	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), db, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondServiceUnavailable(w, "a backing store is not reachable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Catalog endpoints
	if contentHandlers != nil {
		mux.HandleFunc("/v1/quizzes", contentHandlers.HandleList)
		mux.HandleFunc("/v1/quizzes/", contentHandlers.HandleDetail)
	}

	// Session endpoints (REST + observer WebSocket)
	if sessionsHandler != nil {
		mux.HandleFunc("/v1/sessions", sessionsHandler)
		mux.HandleFunc("/v1/sessions/", sessionsHandler)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, db *sql.DB, redisClient *redis.Client) error {
	if db != nil {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
