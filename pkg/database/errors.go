package database

import "errors"

var (
	// ErrNotReady indicates the database could not be reached during startup.
	ErrNotReady = errors.New("database not ready")
	// ErrMigrationFailed indicates the schema could not be brought up to date.
	ErrMigrationFailed = errors.New("database migration failed")
)
