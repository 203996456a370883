package extraction_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/applytrack/internal/extraction"
	"github.com/JaimeStill/applytrack/pkg/handlers"
	"github.com/JaimeStill/applytrack/pkg/openapi"
	"github.com/JaimeStill/applytrack/pkg/routes"
	"github.com/JaimeStill/applytrack/pkg/storage"
)

func newExtractionMux(t *testing.T, engine extraction.Engine, store storage.System) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	routes.Register(mux, newBridge(t, engine, store).Handler().Routes())
	return mux
}

func post(mux http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerExtract(t *testing.T) {
	payload := `{"company":"Acme","role":"Engineer","requirements":["Go","SQL"]}`
	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	})

	for _, path := range []string{"/extract", "/scrape"} {
		t.Run(path, func(t *testing.T) {
			mux := newExtractionMux(t, engine, nil)

			rec := post(mux, path, `{"source": "https://jobs.example.com/42"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, payload, rec.Body.String())
			assert.Empty(t, rec.Header().Get(extraction.HeaderExtractionID))
		})
	}
}

func TestHandlerExtractArchived(t *testing.T) {
	payload := `{"company":"Acme"}`
	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	})
	mux := newExtractionMux(t, engine, newMemoryStore())

	rec := post(mux, "/extract", `{"source": "posting text"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	id := rec.Header().Get(extraction.HeaderExtractionID)
	require.NotEmpty(t, id)

	get := httptest.NewRecorder()
	mux.ServeHTTP(get, httptest.NewRequest("GET", "/extractions/"+id, nil))
	require.Equal(t, http.StatusOK, get.Code)
	assert.JSONEq(t, payload, get.Body.String())
}

func TestHandlerExtractErrors(t *testing.T) {
	failing := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return nil, errors.New("model offline")
	})

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing body", "", http.StatusBadRequest, "source"},
		{"malformed body", `{"source": `, http.StatusBadRequest, "body"},
		{"non-string source", `{"source": 5}`, http.StatusBadRequest, "source"},
		{"body not an object", `["posting"]`, http.StatusBadRequest, "body"},
		{"blank source", `{"source": "   "}`, http.StatusBadRequest, "source"},
		{"missing source", `{}`, http.StatusBadRequest, "source"},
		{"engine failure", `{"source": "posting"}`, http.StatusBadGateway, ""},
	}

	mux := newExtractionMux(t, failing, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(mux, "/extract", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

func TestHandlerArchivedErrors(t *testing.T) {
	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	})

	tests := []struct {
		name   string
		store  storage.System
		id     string
		status int
	}{
		{"archive disabled", nil, "7d0c9a5e-0f1f-4a39-9d55-0b1c2d3e4f50", http.StatusServiceUnavailable},
		{"malformed id", newMemoryStore(), "abc", http.StatusNotFound},
		{"unknown id", newMemoryStore(), "7d0c9a5e-0f1f-4a39-9d55-0b1c2d3e4f50", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newExtractionMux(t, engine, tt.store)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", "/extractions/"+tt.id, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandlerRoutesDocumented(t *testing.T) {
	engine := engineFunc(func(context.Context, string, string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	})
	sys := newBridge(t, engine, nil)

	spec := openapi.NewSpec("test", "1.0.0")
	routes.Describe(spec, "/api", sys.Handler().Routes())

	for path, method := range map[string]string{
		"/api/extract":          "post",
		"/api/scrape":           "post",
		"/api/extractions/{id}": "get",
	} {
		item, ok := spec.Paths[path]
		require.True(t, ok, path)
		switch method {
		case "post":
			require.NotNil(t, item.Post, path)
			assert.Equal(t, []string{"Extraction"}, item.Post.Tags)
		case "get":
			require.NotNil(t, item.Get, path)
		}
	}
	assert.Contains(t, spec.Components.Schemas, "ExtractionRequest")
}
