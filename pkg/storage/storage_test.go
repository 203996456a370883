package storage_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JaimeStill/applytrack/pkg/storage"
)

const azuriteConn = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestConfigDisabledSkipsValidation(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("disabled storage should not validate: %v", err)
	}
	if cfg.ContainerName != "extractions" {
		t.Errorf("container: got %s, want extractions", cfg.ContainerName)
	}
}

func TestConfigEnabledValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"missing connection string", storage.Config{Enabled: true}, "connection_string required"},
		{"traversal prefix", storage.Config{Enabled: true, ConnectionString: azuriteConn, Prefix: "../"}, "invalid prefix"},
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

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_STORAGE_ENABLED", "true")
	t.Setenv("TEST_STORAGE_CONN", azuriteConn)
	t.Setenv("TEST_STORAGE_CONTAINER", "archive")

	cfg := storage.Config{}
	err := cfg.Finalize(&storage.Env{
		Enabled:          "TEST_STORAGE_ENABLED",
		ConnectionString: "TEST_STORAGE_CONN",
		ContainerName:    "TEST_STORAGE_CONTAINER",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Enabled || cfg.ContainerName != "archive" || cfg.ConnectionString != azuriteConn {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestConfigMerge(t *testing.T) {
	base := storage.Config{Enabled: true, ContainerName: "a", ConnectionString: "conn"}
	base.Merge(&storage.Config{Prefix: "payloads/"})

	if !base.Enabled {
		t.Error("an overlay without enabled should not disable storage")
	}
	if base.ContainerName != "a" || base.Prefix != "payloads/" {
		t.Errorf("merge: got %+v", base)
	}
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := storage.New(&storage.Config{ConnectionString: azuriteConn, ContainerName: "x"}, logger); err != nil {
		t.Errorf("valid connection string: %v", err)
	}
	if _, err := storage.New(&storage.Config{ConnectionString: "garbage"}, logger); err == nil {
		t.Error("expected error for malformed connection string")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", storage.ErrDisabled), http.StatusServiceUnavailable},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
