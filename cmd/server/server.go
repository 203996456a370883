package main

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/internal/infrastructure"
	"github.com/JaimeStill/applytrack/pkg/middleware"
)

// Server owns the assembled infrastructure, modules, and HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

// NewServer builds every subsystem without starting any of them.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, err
	}

	handler, err := wrapHandler(router, infra, cfg)
	if err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, cfg.ShutdownTimeoutDuration(), handler, infra.Logger),
	}, nil
}

// wrapHandler applies the process-wide middleware. Metrics must stay
// innermost: it reads the matched pattern from the request the router sees.
func wrapHandler(router http.Handler, infra *infrastructure.Infrastructure, cfg *config.Config) (http.Handler, error) {
	metrics, err := middleware.NewMetrics(infra.Metrics, "/metrics", "/healthz", "/readyz")
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	stack := middleware.New()
	stack.Use(
		func(next http.Handler) http.Handler {
			return otelhttp.NewHandler(next, "applytrack",
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return r.Method + " " + r.URL.Path
				}),
			)
		},
		func(next http.Handler) http.Handler {
			return http.MaxBytesHandler(next, cfg.Server.MaxBodySize)
		},
		metrics.Handler(),
	)

	return stack.Apply(router), nil
}

// Start registers infrastructure hooks and begins serving.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		if err := s.infra.Lifecycle.Err(); err != nil {
			s.infra.Logger.Error("startup failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown cancels the lifecycle and waits for hooks to drain.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
