// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, metrics, tracing)
// that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/migrations"
	"github.com/JaimeStill/applytrack/pkg/database"
	"github.com/JaimeStill/applytrack/pkg/lifecycle"
	"github.com/JaimeStill/applytrack/pkg/storage"
	"github.com/JaimeStill/applytrack/pkg/tracing"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil when blob storage is not enabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Metrics   *prometheus.Registry

	traceShutdown tracing.ShutdownFunc
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger(&cfg.Logging, os.Stderr)

	traceShutdown, err := tracing.Init(context.Background(), &cfg.Tracing, cfg.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.New(&cfg.Database, migrations.FS, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	var store storage.System
	if cfg.Storage.Enabled {
		store, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
	}

	return &Infrastructure{
		Lifecycle:     lifecycle.New(),
		Logger:        logger,
		Database:      db,
		Storage:       store,
		Metrics:       NewRegistry(),
		traceShutdown: traceShutdown,
	}, nil
}

// NewLogger builds the process logger for the configured format and level.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	level := cfg.SlogLevel()

	switch cfg.Format {
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	case config.LogFormatText:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
}

// NewRegistry creates a Prometheus registry carrying the Go runtime and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	tracing.Register(i.Lifecycle, i.traceShutdown, i.Logger)

	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
