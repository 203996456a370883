package applications

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/applytrack/pkg/handlers"
	"github.com/JaimeStill/applytrack/pkg/routes"
)

// Handler provides HTTP endpoints for application operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "applications"),
	}
}

// Routes returns the route group definition for application endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/applications",
		Tags:    []string{"Applications"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: listOp},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: createOp},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: findOp},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update, OpenAPI: updateOp},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Deactivate, OpenAPI: deactivateOp},
		},
	}
}

// List returns the active applications for the phone_number query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.sys.ListByPhone(r.Context(), r.URL.Query().Get("phone_number"))
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, views)
}

// Find returns a single active application.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	view, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Create registers a new application from a JSON body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := decode(r, &cmd); err != nil {
		if errors.Is(err, io.EOF) {
			err = &ValidationError{Field: "body", Reason: "is required"}
		}
		h.fail(w, err)
		return
	}

	view, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, view)
}

// Update applies a partial update. An empty body changes nothing and is
// reported as not found.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if err := decode(r, &cmd); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, err)
		return
	}

	view, err := h.sys.Update(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Deactivate soft-deletes an application.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondMessage(w, http.StatusOK, "Application deactivated successfully")
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		handlers.RespondValidation(w, h.logger, http.StatusBadRequest, verr.Field, err)
		return
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

// decode reads a JSON body into dst. io.EOF is returned unchanged for an
// empty body; other syntax and type errors become validation errors.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return err
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &ValidationError{
			Field:  typeErr.Field,
			Reason: "expected " + typeErr.Type.String() + ", got " + typeErr.Value,
		}
	}

	if isTimeError(err) {
		return &ValidationError{Field: "interview", Reason: "must be an RFC 3339 timestamp"}
	}

	return &ValidationError{Field: "body", Reason: err.Error()}
}

// isTimeError reports whether err came from decoding a time.Time value.
// interview is the only timestamp accepted in request bodies.
func isTimeError(err error) bool {
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return true
	}
	return strings.HasPrefix(err.Error(), "Time.UnmarshalJSON")
}
