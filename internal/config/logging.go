package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLoggingLevel  = "APPLYTRACK_LOG_LEVEL"
	EnvLoggingFormat = "APPLYTRACK_LOG_FORMAT"
)

// Log output formats.
const (
	LogFormatTint = "tint"
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SlogLevel returns Level as a slog.Level.
func (c *LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.Level))
	return level
}

// Finalize applies defaults, environment variable overrides, and validation.
// The local environment defaults to colored tint output; others to JSON.
func (c *LoggingConfig) Finalize(env string) error {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		if env == "local" {
			c.Format = LogFormatTint
		} else {
			c.Format = LogFormatJSON
		}
	}

	if v := os.Getenv(EnvLoggingLevel); v != "" {
		c.Level = v
	}
	if v := os.Getenv(EnvLoggingFormat); v != "" {
		c.Format = v
	}
	c.Format = strings.ToLower(c.Format)

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q", c.Level)
	}

	switch c.Format {
	case LogFormatTint, LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}
