// Package config loads the service configuration from an optional .env file,
// config.toml with an environment overlay, and APPLYTRACK_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/applytrack/pkg/database"
	"github.com/JaimeStill/applytrack/pkg/storage"
	"github.com/JaimeStill/applytrack/pkg/tracing"
)

const (
	DotEnvFile           = ".env"
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvApplytrackEnv             = "APPLYTRACK_ENV"
	EnvApplytrackShutdownTimeout = "APPLYTRACK_SHUTDOWN_TIMEOUT"
	EnvApplytrackVersion         = "APPLYTRACK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "APPLYTRACK_DB_HOST",
	Port:            "APPLYTRACK_DB_PORT",
	Name:            "APPLYTRACK_DB_NAME",
	User:            "APPLYTRACK_DB_USER",
	Password:        "APPLYTRACK_DB_PASSWORD",
	SSLMode:         "APPLYTRACK_DB_SSL_MODE",
	MaxOpenConns:    "APPLYTRACK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "APPLYTRACK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "APPLYTRACK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "APPLYTRACK_DB_CONN_TIMEOUT",
	AutoMigrate:     "APPLYTRACK_DB_AUTO_MIGRATE",
}

var storageEnv = &storage.Env{
	Enabled:          "APPLYTRACK_STORAGE_ENABLED",
	ContainerName:    "APPLYTRACK_STORAGE_CONTAINER_NAME",
	ConnectionString: "APPLYTRACK_STORAGE_CONNECTION_STRING",
	Prefix:           "APPLYTRACK_STORAGE_PREFIX",
}

var tracingEnv = &tracing.Env{
	Enabled:     "APPLYTRACK_TRACING_ENABLED",
	Protocol:    "APPLYTRACK_TRACING_PROTOCOL",
	Endpoint:    "APPLYTRACK_TRACING_ENDPOINT",
	Insecure:    "APPLYTRACK_TRACING_INSECURE",
	ServiceName: "APPLYTRACK_TRACING_SERVICE_NAME",
	SampleRatio: "APPLYTRACK_TRACING_SAMPLE_RATIO",
}

// Config is the root configuration for the applytrack service.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        database.Config    `toml:"database"`
	Storage         storage.Config     `toml:"storage"`
	API             APIConfig          `toml:"api"`
	Applications    ApplicationsConfig `toml:"applications"`
	Extraction      ExtractionConfig   `toml:"extraction"`
	Tracing         tracing.Config     `toml:"tracing"`
	Logging         LoggingConfig      `toml:"logging"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
	Version         string             `toml:"version"`
}

// Env returns the APPLYTRACK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvApplytrackEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present) into the process environment, then the base
// config (if present), applies any environment overlay, and finalizes all
// values. Without config.toml, defaults and environment variables provide
// all configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Applications.Merge(&overlay.Applications)
	c.Extraction.Merge(&overlay.Extraction)
	c.Tracing.Merge(&overlay.Tracing)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Applications.Finalize(); err != nil {
		return fmt.Errorf("applications: %w", err)
	}
	if err := c.Extraction.Finalize(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Tracing.Finalize(tracingEnv); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	if err := c.Logging.Finalize(c.Env()); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Extraction.Archive && !c.Storage.Enabled {
		return fmt.Errorf("extraction: archive requires storage.enabled")
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvApplytrackShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvApplytrackVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvApplytrackEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
