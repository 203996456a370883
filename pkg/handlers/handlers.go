// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body written for failed requests. Field names the
// offending input when the failure is a validation error.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// MessageResponse is the body written for acknowledgements without data.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON writes data as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondRaw writes an already-encoded JSON document with the given status.
func RespondRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// RespondMessage writes {"message": msg}.
func RespondMessage(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, MessageResponse{Message: msg})
}

// RespondError logs err and writes {"error": err.Error()}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	log(logger, status, "request failed", "error", err, "status", status)
	RespondJSON(w, status, ErrorResponse{Error: err.Error()})
}

// RespondValidation logs err and writes {"error": err.Error(), "field": field}.
func RespondValidation(w http.ResponseWriter, logger *slog.Logger, status int, field string, err error) {
	log(logger, status, "validation failed", "error", err, "field", field)
	RespondJSON(w, status, ErrorResponse{Error: err.Error(), Field: field})
}

func log(logger *slog.Logger, status int, msg string, args ...any) {
	if status >= http.StatusInternalServerError {
		logger.Error(msg, args...)
		return
	}
	logger.Warn(msg, args...)
}
