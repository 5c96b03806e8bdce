package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizhub"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Content     Content
	Redis       Redis
	Session     Session
	Certificate Certificate
}

// Content selects and configures the quiz document source.
type Content struct {
	// Backend is "fs" (directory of JSON/YAML files) or "sql".
	Backend string `env:"CONTENT_BACKEND" envDefault:"fs"`
	Dir     string `env:"CONTENT_DIR" envDefault:"quizzes"`
	// Driver applies to the sql backend: "sqlite" or "postgres".
	Driver     string        `env:"CONTENT_DB_DRIVER" envDefault:"sqlite"`
	DSN        string        `env:"CONTENT_DB_DSN" envDefault:"quizhub.db"`
	CatalogTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"30s"`
}

// Redis holds catalog cache configuration. Leaving the addr empty runs
// without a cache.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Session governs how long abandoned runs are kept.
type Session struct {
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

// Certificate configures the PNG renderer. An empty font path falls
// back to the built-in bitmap face.
type Certificate struct {
	FontPath string `env:"CERTIFICATE_FONT" envDefault:""`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
