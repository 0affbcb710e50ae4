package proxy

import (
	"errors"
	"net/http"
)

// Gateway error taxonomy. Only these messages ever reach a caller; upstream
// error bodies and credentials stay in the server-side log.
var (
	ErrUnauthorized     = errors.New("Unauthorized")
	ErrInvalidAction    = errors.New("Invalid action")
	ErrInvalidInput     = errors.New("Invalid request")
	ErrInvalidDomain    = errors.New("Invalid domain format")
	ErrKeyNotConfigured = errors.New("API key not configured")
	ErrUpstream         = errors.New("External API request failed")
	ErrSearchFailed     = errors.New("Search request failed")
)

// mapError resolves an error to the HTTP status and client-safe message for
// the response. Anything outside the taxonomy collapses to a generic
// message so internal detail cannot leak.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, ErrUnauthorized.Error()
	case errors.Is(err, ErrInvalidAction):
		return http.StatusBadRequest, ErrInvalidAction.Error()
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, ErrInvalidInput.Error()
	case errors.Is(err, ErrInvalidDomain):
		return http.StatusBadRequest, ErrInvalidDomain.Error()
	case errors.Is(err, ErrKeyNotConfigured):
		return http.StatusInternalServerError, ErrKeyNotConfigured.Error()
	case errors.Is(err, ErrSearchFailed):
		return http.StatusBadGateway, ErrSearchFailed.Error()
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway, ErrUpstream.Error()
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}
