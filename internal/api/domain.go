package api

import (
	"fmt"

	"github.com/JaimeStill/applytrack/internal/applications"
	"github.com/JaimeStill/applytrack/internal/extraction"
	"github.com/JaimeStill/applytrack/pkg/storage"
	"github.com/JaimeStill/applytrack/pkg/workerpool"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Applications applications.System
	Extraction   extraction.System
}

// NewDomain creates all domain systems from the API runtime. The extraction
// worker pool is started on the runtime lifecycle.
func NewDomain(runtime *Runtime) (*Domain, error) {
	appsSystem := applications.New(
		applications.NewRepository(runtime.Database.Connection(), runtime.Logger),
		runtime.Applications.DefaultStatus,
		runtime.Logger,
	)

	pool, err := workerpool.New(
		"extraction",
		runtime.Extraction.Workers,
		runtime.Metrics,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("extraction pool: %w", err)
	}
	if err := pool.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("extraction pool start: %w", err)
	}

	var engine extraction.Engine
	model, err := extraction.NewModel(&runtime.Extraction, runtime.ModelClient)
	if err != nil {
		runtime.Logger.Warn("extraction engine unavailable",
			"provider", runtime.Extraction.Provider,
			"error", err,
		)
	} else {
		engine = extraction.NewEngine(model, extraction.EngineOptions{
			Client:    runtime.SourceClient,
			MaxSize:   runtime.Extraction.MaxSourceSizeBytes(),
			UserAgent: runtime.Extraction.UserAgent,
		}, runtime.Logger)
	}

	var archive storage.System
	if runtime.Extraction.Archive {
		archive = runtime.Storage
	}

	return &Domain{
		Applications: appsSystem,
		Extraction:   extraction.New(engine, pool, archive, runtime.Logger),
	}, nil
}
