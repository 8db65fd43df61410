package routes

import (
	"net/http"

	"github.com/JaimeStill/redline/pkg/openapi"
)

// Group organizes routes under a common prefix. Children inherit the
// accumulated prefix. Schemas are the component schemas its operations
// reference.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
	Schemas  map[string]*openapi.Schema
}

// Patterns returns every ServeMux pattern the group declares, in
// declaration order with children after their parent's routes.
func (g Group) Patterns() []string {
	var patterns []string
	g.walk("", nil, func(prefix string, _ []string, r Route) {
		patterns = append(patterns, r.String(prefix))
	})
	return patterns
}

// AddToSpec documents every route with an OpenAPI operation and merges the
// group's schemas into the spec components. Operations without tags
// inherit the nearest group's tags.
func (g Group) AddToSpec(spec *openapi.Spec) {
	g.walk("", nil, func(prefix string, tags []string, r Route) {
		if r.OpenAPI == nil {
			return
		}
		op := *r.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(r.Method, r.Path(prefix), &op)
	})
	g.addSchemas(spec)
}

// Register adds all routes from the given groups to the mux and returns the
// registered patterns.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var registered []string
	for _, group := range groups {
		group.walk("", nil, func(prefix string, _ []string, r Route) {
			pattern := r.String(prefix)
			mux.HandleFunc(pattern, r.Handler)
			registered = append(registered, pattern)
		})
	}
	return registered
}

func (g Group) walk(parent string, tags []string, fn func(prefix string, tags []string, r Route)) {
	prefix := parent + g.Prefix
	if len(g.Tags) > 0 {
		tags = g.Tags
	}
	for _, r := range g.Routes {
		fn(prefix, tags, r)
	}
	for _, child := range g.Children {
		child.walk(prefix, tags, fn)
	}
}

func (g Group) addSchemas(spec *openapi.Spec) {
	if len(g.Schemas) > 0 {
		spec.Components.AddSchemas(g.Schemas)
	}
	for _, child := range g.Children {
		child.addSchemas(spec)
	}
}
