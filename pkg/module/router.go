package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Router sends a request to the module owning the first segment of its
// path. Paths no module claims go to the native mux.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers a process-level route such as liveness or metrics.
func (r *Router) HandleNative(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

// Mount claims the module's prefix. A prefix can be mounted once.
func (r *Router) Mount(m *Module) error {
	if _, taken := r.modules[m.prefix]; taken {
		return fmt.Errorf("module prefix %s already mounted", m.prefix)
	}
	r.modules[m.prefix] = m
	return nil
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	trimTrailingSlash(req)

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

// firstSegment returns "/applications" for "/applications/42/x".
func firstSegment(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}

func trimTrailingSlash(req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimRight(p, "/")
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
	}
}
