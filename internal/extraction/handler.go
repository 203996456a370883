package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/applytrack/pkg/handlers"
	"github.com/JaimeStill/applytrack/pkg/routes"
)

// HeaderExtractionID carries the archive id of an extraction payload.
const HeaderExtractionID = "X-Extraction-ID"

// Request is the body accepted by the extract endpoints.
type Request struct {
	Source string `json:"source"`
}

// Handler provides HTTP endpoints for extraction operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "extraction"),
	}
}

// Routes returns the route group definition for extraction endpoints.
// /scrape is kept as an alias of /extract.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Extraction"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/extract", Handler: h.Extract, OpenAPI: extractOp("extract")},
			{Method: "POST", Pattern: "/scrape", Handler: h.Extract, OpenAPI: extractOp("scrape")},
			{Method: "GET", Pattern: "/extractions/{id}", Handler: h.Archived, OpenAPI: archivedOp},
		},
	}
}

// Extract runs the extraction engine against the posted source and writes
// the engine output unchanged.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectBody(w, err)
		return
	}

	result, err := h.sys.Extract(r.Context(), req.Source)
	if err != nil {
		if errors.Is(err, ErrEmptySource) {
			handlers.RespondValidation(w, h.logger, http.StatusBadRequest, "source", err)
			return
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if result.ID != "" {
		w.Header().Set(HeaderExtractionID, result.ID)
	}
	handlers.RespondRaw(w, http.StatusOK, result.Payload)
}

// rejectBody reports a request body that could not be decoded. An absent
// body is a missing source.
func (h *Handler) rejectBody(w http.ResponseWriter, err error) {
	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &maxErr):
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, io.EOF):
		handlers.RespondValidation(w, h.logger, http.StatusBadRequest, "source", ErrEmptySource)
	case errors.As(err, &typeErr) && typeErr.Field == "source":
		handlers.RespondValidation(w, h.logger, http.StatusBadRequest, "source",
			fmt.Errorf("source must be a string, got %s", typeErr.Value))
	default:
		handlers.RespondValidation(w, h.logger, http.StatusBadRequest, "body",
			fmt.Errorf("invalid body: %w", err))
	}
}

// Archived returns a previously archived extraction payload.
func (h *Handler) Archived(w http.ResponseWriter, r *http.Request) {
	payload, err := h.sys.Archived(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondRaw(w, http.StatusOK, payload)
}
