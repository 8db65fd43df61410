package prompts

import (
	"errors"
	"net/http"
)

// Domain errors for rule operations.
var (
	ErrRuleNotFound    = errors.New("rule not found")
	ErrInvalidRules    = errors.New("invalid rule table")
	ErrInvalidPriority = errors.New("priority must be P1, P2, or P3")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrRuleNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
