package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/applytrack/internal/api"
	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/internal/infrastructure"
	"github.com/JaimeStill/applytrack/pkg/handlers"
	"github.com/JaimeStill/applytrack/pkg/module"
)

// Modules holds the prefix-mounted modules served by the router.
type Modules struct {
	API *module.Module
}

// NewModules creates every mounted module.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount registers each module on router.
func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondMessage(w, http.StatusOK, "Job Applications API is running!")
	}))

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	router.HandleNative("GET /readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}))

	router.HandleNative("GET /metrics", promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{
		Registry: infra.Metrics,
	}))

	return router
}
