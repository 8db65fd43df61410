// Package middleware provides an ordered middleware stack and the request
// logging, panic recovery, request id, and CORS middleware the HTTP
// modules share.
package middleware

import "net/http"

// Func wraps an http.Handler.
type Func = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware. The first middleware
// added is the outermost.
type System interface {
	Use(mw Func)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type stack struct {
	fns []Func
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn Func) {
	if fn != nil {
		s.fns = append(s.fns, fn)
	}
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.fns) - 1; i >= 0; i-- {
		handler = s.fns[i](handler)
	}
	return handler
}

func (s *stack) Len() int {
	return len(s.fns)
}
