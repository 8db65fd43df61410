package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/redline/pkg/reasoning"
)

// Domain errors for analysis operations.
var (
	ErrNotFound       = errors.New("analysis not found")
	ErrInvalidRequest = errors.New("invalid analysis request")
	ErrBodyTooLarge   = errors.New("request body exceeds maximum size")
)

// MapHTTPStatus maps analysis domain and reasoning errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, reasoning.ErrConfiguration) {
		return http.StatusInternalServerError
	}
	if errors.Is(err, reasoning.ErrTransport) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
