// Package openapi builds and serves an OpenAPI 3.1 description of the HTTP API.
package openapi

import "os"

// Config holds OpenAPI metadata for document generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Job Applications API"
	}
	if c.Description == "" {
		c.Description = "Tracks job applications per phone number and extracts posting details with an LLM."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for _, o := range []struct {
		name   string
		target *string
	}{
		{env.Title, &c.Title},
		{env.Description, &c.Description},
	} {
		if o.name == "" {
			continue
		}
		if v := os.Getenv(o.name); v != "" {
			*o.target = v
		}
	}
}
