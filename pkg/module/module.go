// Package module mounts self-contained HTTP handlers under single-level
// path prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/redline/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner router
// with its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
	handler    http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
func New(prefix string, router http.Handler) (*Module, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}, nil
}

// Handler returns the inner router wrapped with the module's middleware
// stack. The chain is built on first use; middleware added afterwards is
// ignored.
func (m *Module) Handler() http.Handler {
	if m.handler == nil {
		m.handler = m.middleware.Apply(m.router)
	}
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// ServeHTTP strips the module prefix from the request path and dispatches
// to the inner router.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, stripPrefix(req, m.prefix))
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw ...middleware.Func) {
	for _, fn := range mw {
		m.middleware.Use(fn)
	}
}

// ValidatePrefix reports whether prefix is a non-empty single-level path.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	request := req.Clone(req.Context())
	request.URL = new(url.URL)
	*request.URL = *req.URL
	request.URL.Path = path
	request.URL.RawPath = ""
	return request
}
