// Package middleware provides composable HTTP middleware: an ordered stack,
// CORS, request logging, and Prometheus request metrics.
package middleware

import "net/http"

// Func wraps an http.Handler.
type Func = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware. The first Func added
// is the outermost.
type System interface {
	Use(mw ...Func)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	fns []Func
}

// New creates an empty middleware System.
func New() System {
	return &stack{fns: make([]Func, 0)}
}

func (s *stack) Use(mw ...Func) {
	s.fns = append(s.fns, mw...)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.fns) - 1; i >= 0; i-- {
		handler = s.fns[i](handler)
	}
	return handler
}
