package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/applytrack/internal/config"
	"github.com/JaimeStill/applytrack/pkg/lifecycle"
)

type httpServer struct {
	srv    *http.Server
	drain  time.Duration
	logger *slog.Logger
}

func newHTTPServer(cfg *config.ServerConfig, drain time.Duration, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
			IdleTimeout:  cfg.IdleTimeoutDuration(),
		},
		drain:  drain,
		logger: logger.With("system", "http"),
	}
}

// Start binds the listener synchronously and returns any bind error.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.drain)
		defer cancel()

		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("drain incomplete", "error", err)
			return
		}
		s.logger.Info("connections drained")
	})

	return nil
}
