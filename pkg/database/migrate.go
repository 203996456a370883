package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

// Migrate applies every pending up migration found at the root of fsys and
// returns the resulting schema version. The migrator uses its own connection
// so the shared pool is never closed by it.
func Migrate(cfg *Config, fsys fs.FS) (uint, error) {
	source, err := iofs.New(fsys, ".")
	if err != nil {
		return 0, fmt.Errorf("%w: source: %w", ErrMigrationFailed, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.URL())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("%w: version: %w", ErrMigrationFailed, err)
	}
	if dirty {
		return version, fmt.Errorf("%w: schema version %d is dirty", ErrMigrationFailed, version)
	}

	return version, nil
}
