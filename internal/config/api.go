package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/applytrack/pkg/middleware"
	"github.com/JaimeStill/applytrack/pkg/module"
	"github.com/JaimeStill/applytrack/pkg/openapi"
)

const EnvAPIBasePath = "APPLYTRACK_API_BASE_PATH"

var corsEnv = &middleware.CORSEnv{
	Enabled:          "APPLYTRACK_CORS_ENABLED",
	Origins:          "APPLYTRACK_CORS_ORIGINS",
	AllowedMethods:   "APPLYTRACK_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "APPLYTRACK_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "APPLYTRACK_CORS_EXPOSED_HEADERS",
	AllowCredentials: "APPLYTRACK_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "APPLYTRACK_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "APPLYTRACK_OPENAPI_TITLE",
	Description: "APPLYTRACK_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath string                `toml:"base_path"`
	CORS     middleware.CORSConfig `toml:"cors"`
	OpenAPI  openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := module.ValidatePrefix(c.BasePath); err != nil {
		return fmt.Errorf("base_path: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if len(c.CORS.ExposedHeaders) == 0 {
		c.CORS.ExposedHeaders = []string{"X-Extraction-ID"}
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
}
