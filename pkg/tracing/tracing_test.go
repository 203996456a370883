package tracing_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/applytrack/pkg/tracing"
)

func TestConfigDefaults(t *testing.T) {
	cfg := tracing.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.Protocol != tracing.ProtocolGRPC {
		t.Errorf("protocol: got %s", cfg.Protocol)
	}
	if cfg.ServiceName != "applytrack" {
		t.Errorf("service_name: got %s", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1.0 {
		t.Errorf("sample_ratio: got %v", cfg.SampleRatio)
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_TRACE_ENABLED", "true")
	t.Setenv("TEST_TRACE_PROTOCOL", "http/protobuf")
	t.Setenv("TEST_TRACE_RATIO", "0.25")

	cfg := tracing.Config{}
	err := cfg.Finalize(&tracing.Env{
		Enabled:     "TEST_TRACE_ENABLED",
		Protocol:    "TEST_TRACE_PROTOCOL",
		SampleRatio: "TEST_TRACE_RATIO",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Enabled || cfg.Protocol != tracing.ProtocolHTTP || cfg.SampleRatio != 0.25 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{"protocol", tracing.Config{Protocol: "udp"}, "unsupported protocol"},
		{"ratio", tracing.Config{SampleRatio: 1.5}, "sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestInitDisabledIsNoop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := tracing.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	shutdown, err := tracing.Init(context.Background(), &cfg, "test", logger)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestInitEnabledHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := tracing.Config{
		Enabled:  true,
		Protocol: tracing.ProtocolHTTP,
		Endpoint: "127.0.0.1:4318",
		Insecure: true,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	shutdown, err := tracing.Init(context.Background(), &cfg, "test", logger)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	shutdown(ctx)
}
