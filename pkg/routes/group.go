// Package routes groups handlers under shared prefixes and registers them
// on a ServeMux and in an OpenAPI document.
package routes

import (
	"net/http"

	"github.com/JaimeStill/applytrack/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags and schemas.
type Group struct {
	Prefix   string
	Tags     []string
	Schemas  map[string]*openapi.Schema
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

// Describe adds every documented route to spec. basePath is prepended to
// each path so the document matches the externally visible URLs.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, basePath, nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	if len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		path := fullPrefix + route.Pattern
		if path == "" {
			path = "/"
		}

		spec.AddOperation(path, route.Method, op)
	}

	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, tags, child)
	}
}
