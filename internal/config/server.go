package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost         = "APPLYTRACK_SERVER_HOST"
	EnvServerPort         = "APPLYTRACK_SERVER_PORT"
	EnvServerReadTimeout  = "APPLYTRACK_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout = "APPLYTRACK_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout  = "APPLYTRACK_SERVER_IDLE_TIMEOUT"
	EnvServerMaxBodySize  = "APPLYTRACK_SERVER_MAX_BODY_SIZE"
)

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	IdleTimeout  string `toml:"idle_timeout"`
	MaxBodySize  int64  `toml:"max_body_size"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.MaxBodySize != 0 {
		c.MaxBodySize = overlay.MaxBodySize
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "30s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "5m"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "2m"
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = 1 << 20
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv(EnvServerReadTimeout); v != "" {
		c.ReadTimeout = v
	}
	if v := os.Getenv(EnvServerWriteTimeout); v != "" {
		c.WriteTimeout = v
	}
	if v := os.Getenv(EnvServerIdleTimeout); v != "" {
		c.IdleTimeout = v
	}
	if v := os.Getenv(EnvServerMaxBodySize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBodySize = n
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := time.ParseDuration(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.IdleTimeout); err != nil {
		return fmt.Errorf("invalid idle_timeout: %w", err)
	}
	if c.MaxBodySize < 1 {
		return fmt.Errorf("invalid max_body_size: %d", c.MaxBodySize)
	}
	return nil
}
