package api

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Applications config.ApplicationsConfig
	Extraction   config.ExtractionConfig

	// ModelClient carries language model traffic. SourceClient fetches
	// remote postings and is bounded by the extraction fetch timeout.
	ModelClient  *http.Client
	SourceClient *http.Client
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Metrics:   infra.Metrics,
		},
		Applications: cfg.Applications,
		Extraction:   cfg.Extraction,
		ModelClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		SourceClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Extraction.FetchTimeoutDuration(),
		},
	}
}
