// Package routes declares HTTP endpoints as data and registers them on a
// method-aware ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/redline/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI, when set,
// documents the route in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// String returns the ServeMux pattern for the route under prefix.
func (r Route) String(prefix string) string {
	path := r.Path(prefix)
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}

// Path returns the route's full path under prefix.
func (r Route) Path(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		return "/"
	}
	return path
}
