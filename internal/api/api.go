// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/internal/infrastructure"
	"github.com/JaimeStill/applytrack/pkg/middleware"
	"github.com/JaimeStill/applytrack/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
