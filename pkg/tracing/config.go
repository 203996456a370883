package tracing

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds OpenTelemetry trace export settings.
type Config struct {
	Enabled     bool    `toml:"enabled"`
	Protocol    string  `toml:"protocol"`
	Endpoint    string  `toml:"endpoint"`
	Insecure    bool    `toml:"insecure"`
	ServiceName string  `toml:"service_name"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled     string
	Protocol    string
	Endpoint    string
	Insecure    string
	ServiceName string
	SampleRatio string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Boolean fields can only be
// switched on by an overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Insecure {
		c.Insecure = true
	}
	if overlay.Protocol != "" {
		c.Protocol = overlay.Protocol
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
	if overlay.SampleRatio != 0 {
		c.SampleRatio = overlay.SampleRatio
	}
}

func (c *Config) loadDefaults() {
	if c.Protocol == "" {
		c.Protocol = ProtocolGRPC
	}
	if c.ServiceName == "" {
		c.ServiceName = "applytrack"
	}
	if c.SampleRatio == 0 {
		c.SampleRatio = 1.0
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := lookup(env.Enabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := lookup(env.Protocol); v != "" {
		c.Protocol = v
	}
	if v := lookup(env.Endpoint); v != "" {
		c.Endpoint = v
	}
	if v := lookup(env.Insecure); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Insecure = b
		}
	}
	if v := lookup(env.ServiceName); v != "" {
		c.ServiceName = v
	}
	if v := lookup(env.SampleRatio); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.SampleRatio = f
		}
	}
}

func (c *Config) validate() error {
	switch c.Protocol {
	case ProtocolGRPC, ProtocolHTTP:
	default:
		return fmt.Errorf("unsupported protocol %q: use %s or %s", c.Protocol, ProtocolGRPC, ProtocolHTTP)
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio must be within [0, 1], got %v", c.SampleRatio)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
