package config

import (
	"fmt"
	"os"
	"strings"
)

const EnvApplicationsDefaultStatus = "APPLYTRACK_APPLICATIONS_DEFAULT_STATUS"

// ApplicationsConfig holds application lifecycle settings.
type ApplicationsConfig struct {
	DefaultStatus string `toml:"default_status"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ApplicationsConfig) Finalize() error {
	if c.DefaultStatus == "" {
		c.DefaultStatus = "Postulado"
	}
	if v := os.Getenv(EnvApplicationsDefaultStatus); v != "" {
		c.DefaultStatus = v
	}
	if strings.TrimSpace(c.DefaultStatus) == "" {
		return fmt.Errorf("default_status must not be blank")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ApplicationsConfig) Merge(overlay *ApplicationsConfig) {
	if overlay.DefaultStatus != "" {
		c.DefaultStatus = overlay.DefaultStatus
	}
}
