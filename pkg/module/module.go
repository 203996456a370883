// Package module mounts prefix-scoped handlers, each with its own
// middleware stack, behind a single top-level router.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/applytrack/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner router
// with its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// The prefix must be non-empty, start with a slash, and contain no further slashes.
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

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to the inner router.
// The matched inner pattern is copied back to req with the prefix restored.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := extractPath(req.URL.Path, m.prefix)
	inner := cloneRequest(req, path)
	m.Handler().ServeHTTP(w, inner)

	if inner.Pattern != "" {
		req.Pattern = m.prefixPattern(inner.Pattern)
	}
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw ...middleware.Func) {
	m.middleware.Use(mw...)
}

// ValidatePrefix reports whether prefix can be used to mount a Module.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if prefix == "/" {
		return fmt.Errorf("module prefix cannot be the root path")
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}

func (m *Module) prefixPattern(pattern string) string {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		return m.prefix + pattern
	}
	return method + " " + m.prefix + path
}

func cloneRequest(req *http.Request, path string) *http.Request {
	r := req.Clone(req.Context())
	r.URL = new(url.URL)
	*r.URL = *req.URL
	r.URL.Path = path
	r.URL.RawPath = ""
	return r
}

func extractPath(fullPath, prefix string) string {
	path := fullPath[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}
