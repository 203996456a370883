package extraction

import (
	"errors"
	"net/http"
)

// Domain errors for extraction operations.
var (
	ErrEmptySource      = errors.New("source must not be empty")
	ErrSourceTooLarge   = errors.New("source exceeds maximum size")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrUnavailable      = errors.New("extraction engine unavailable")
	ErrArchiveDisabled  = errors.New("extraction archive is not enabled")
	ErrNotFound         = errors.New("extraction not found")
)

// MapHTTPStatus maps extraction domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptySource):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrExtractionFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
