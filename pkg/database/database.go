// Package database manages the PostgreSQL connection pool shared by the
// record store, including its startup ping, schema migration, and shutdown.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/JaimeStill/applytrack/pkg/lifecycle"
)

// System owns the connection pool for the lifetime of the process.
type System interface {
	// Connection returns the pool. It is safe for concurrent use.
	Connection() *sql.DB
	// Start registers the ping/migrate startup hook and the close shutdown hook.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	cfg         *Config
	migrations  fs.FS
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens the pool without connecting. Statements are traced through the
// global OpenTelemetry provider. migrations may be nil, in which case nothing
// is applied at startup regardless of the auto_migrate setting.
func New(cfg *Config, migrations fs.FS, logger *slog.Logger) (System, error) {
	db, err := otelsql.Open("pgx", cfg.Dsn(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSpanOptions(otelsql.SpanOptions{OmitConnResetSession: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		cfg:         cfg,
		migrations:  migrations,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	lc.OnStartup(func() error {
		pingCtx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		if err := d.conn.PingContext(pingCtx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return fmt.Errorf("%w: %w", ErrNotReady, err)
		}
		d.logger.Info("database connection established")

		if d.migrations == nil || !d.cfg.MigrateOnStart() {
			return nil
		}

		version, err := Migrate(d.cfg, d.migrations)
		if err != nil {
			d.logger.Error("database migration failed", "error", err)
			return err
		}

		d.logger.Info("database schema current", "version", version)
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}
