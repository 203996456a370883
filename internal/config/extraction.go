package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/applytrack/pkg/formatting"
)

const (
	EnvExtractionProvider      = "APPLYTRACK_EXTRACTION_PROVIDER"
	EnvExtractionBaseURL       = "APPLYTRACK_EXTRACTION_BASE_URL"
	EnvExtractionToken         = "APPLYTRACK_EXTRACTION_TOKEN"
	EnvExtractionModel         = "APPLYTRACK_EXTRACTION_MODEL"
	EnvExtractionWorkers       = "APPLYTRACK_EXTRACTION_WORKERS"
	EnvExtractionFetchTimeout  = "APPLYTRACK_EXTRACTION_FETCH_TIMEOUT"
	EnvExtractionMaxSourceSize = "APPLYTRACK_EXTRACTION_MAX_SOURCE_SIZE"
	EnvExtractionUserAgent     = "APPLYTRACK_EXTRACTION_USER_AGENT"
	EnvExtractionArchive       = "APPLYTRACK_EXTRACTION_ARCHIVE"

	// EnvOpenAIKey is consulted when no extraction token is configured.
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// Supported extraction providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ExtractionConfig holds the extraction engine and bridge settings.
type ExtractionConfig struct {
	Provider      string `toml:"provider"`
	BaseURL       string `toml:"base_url"`
	Token         string `toml:"token"`
	Model         string `toml:"model"`
	Workers       int    `toml:"workers"`
	FetchTimeout  string `toml:"fetch_timeout"`
	MaxSourceSize string `toml:"max_source_size"`
	UserAgent     string `toml:"user_agent"`
	Archive       bool   `toml:"archive"`
}

// FetchTimeoutDuration returns FetchTimeout as a time.Duration.
func (c *ExtractionConfig) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.FetchTimeout)
	return d
}

// MaxSourceSizeBytes returns MaxSourceSize in bytes.
func (c *ExtractionConfig) MaxSourceSizeBytes() int64 {
	n, err := formatting.ParseBytes(c.MaxSourceSize)
	if err != nil {
		return 2 << 20
	}
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ExtractionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Archive can only be
// switched on by an overlay.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.FetchTimeout != "" {
		c.FetchTimeout = overlay.FetchTimeout
	}
	if overlay.MaxSourceSize != "" {
		c.MaxSourceSize = overlay.MaxSourceSize
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.Archive {
		c.Archive = true
	}
}

func (c *ExtractionConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderOllama:
			c.Model = "llama3.1"
		default:
			c.Model = "gpt-4o-mini"
		}
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = "20s"
	}
	if c.MaxSourceSize == "" {
		c.MaxSourceSize = "2MB"
	}
	if c.UserAgent == "" {
		c.UserAgent = "applytrack/extractor"
	}
}

func (c *ExtractionConfig) loadEnv() {
	if v := os.Getenv(EnvExtractionProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvExtractionBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvExtractionToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvExtractionModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvExtractionWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvExtractionFetchTimeout); v != "" {
		c.FetchTimeout = v
	}
	if v := os.Getenv(EnvExtractionMaxSourceSize); v != "" {
		c.MaxSourceSize = v
	}
	if v := os.Getenv(EnvExtractionUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(EnvExtractionArchive); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Archive = b
		}
	}
	if c.Token == "" && c.Provider == ProviderOpenAI {
		c.Token = os.Getenv(EnvOpenAIKey)
	}
}

func (c *ExtractionConfig) validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
		return fmt.Errorf("invalid fetch_timeout: %w", err)
	}
	if n, err := formatting.ParseBytes(c.MaxSourceSize); err != nil || n < 1 {
		return fmt.Errorf("invalid max_source_size %q", c.MaxSourceSize)
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url %q", c.BaseURL)
		}
	}
	return nil
}
