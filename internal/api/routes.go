package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/pkg/openapi"
	"github.com/JaimeStill/applytrack/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Applications.Handler().Routes(),
		domain.Extraction.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	routes.Describe(spec, "", groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi: %w", err)
	}
	mux.Handle("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
