// Package registry is the widget type registry: per-type display metadata,
// default sizes, and sizing constraints, plus fuzzy lookup for the add-widget
// picker.
package registry

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"dashgrid/pkg/grid"
)

// Metadata describes a widget type. Sizes and constraints are in wide-grid
// column units.
type Metadata struct {
	Type       string
	Title      string
	DefaultW   int
	DefaultH   int
	Constraint *grid.Constraint
	// IsGlobal marks types that may appear at most once per board.
	IsGlobal bool
}

// Registry holds the known widget types.
type Registry struct {
	types map[string]Metadata
}

// New creates a registry with the built-in widget types.
func New() *Registry {
	r := &Registry{types: make(map[string]Metadata)}
	for _, m := range builtins {
		r.types[m.Type] = m
	}
	return r
}

var builtins = []Metadata{
	{Type: "clock", Title: "Clock", DefaultW: 4, DefaultH: 2, Constraint: &grid.Constraint{MinW: 2, MinH: 1, MaxW: 8, MaxH: 4}, IsGlobal: false},
	{Type: "weather", Title: "Weather", DefaultW: 6, DefaultH: 3, Constraint: &grid.Constraint{MinW: 4, MinH: 2, MaxW: 12, MaxH: 6}},
	{Type: "media", Title: "Media Library", DefaultW: 8, DefaultH: 4, Constraint: &grid.Constraint{MinW: 6, MinH: 3, MaxW: 24, MaxH: 10}},
	{Type: "downloads", Title: "Download Queue", DefaultW: 8, DefaultH: 4, Constraint: &grid.Constraint{MinW: 6, MinH: 2, MaxW: 24, MaxH: 12}},
	{Type: "sysload", Title: "System Load", DefaultW: 6, DefaultH: 3, Constraint: &grid.Constraint{MinW: 4, MinH: 2, MaxW: 12, MaxH: 8}},
	{Type: "note", Title: "Note", DefaultW: 6, DefaultH: 4},
	{Type: "embed", Title: "Embedded Page", DefaultW: 12, DefaultH: 6, Constraint: &grid.Constraint{MinW: 6, MinH: 4}},
	{Type: "search", Title: "Search Bar", DefaultW: 12, DefaultH: 1, Constraint: &grid.Constraint{MinW: 6, MinH: 1, MaxW: 24, MaxH: 1}, IsGlobal: true},
}

// Register adds or replaces a widget type.
func (r *Registry) Register(m Metadata) {
	r.types[m.Type] = m
}

// Get returns the metadata for a type and whether it is known.
func (r *Registry) Get(widgetType string) (Metadata, bool) {
	m, ok := r.types[widgetType]
	return m, ok
}

// Types returns all known type keys in stable order.
func (r *Registry) Types() []string {
	keys := make([]string, 0, len(r.types))
	for k := range r.types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Search fuzzy-matches the query against type keys and titles, best match
// first. An empty query returns every type in stable order.
func (r *Registry) Search(query string) []Metadata {
	keys := r.Types()
	if query == "" {
		out := make([]Metadata, 0, len(keys))
		for _, k := range keys {
			out = append(out, r.types[k])
		}
		return out
	}

	haystack := make([]string, 0, len(keys))
	for _, k := range keys {
		haystack = append(haystack, k+" "+r.types[k].Title)
	}
	matches := fuzzy.Find(query, haystack)
	out := make([]Metadata, 0, len(matches))
	for _, m := range matches {
		out = append(out, r.types[keys[m.Index]])
	}
	return out
}

// DefaultSize implements grid.TypeDefaults. Unknown types get a conservative
// default so a stale persisted board still renders.
func (r *Registry) DefaultSize(widgetType string) (int, int) {
	if m, ok := r.types[widgetType]; ok {
		return m.DefaultW, m.DefaultH
	}
	return 4, 2
}

// TypeConstraint implements grid.TypeDefaults.
func (r *Registry) TypeConstraint(widgetType string) (grid.Constraint, bool) {
	m, ok := r.types[widgetType]
	if !ok || m.Constraint == nil {
		return grid.Constraint{}, false
	}
	return *m.Constraint, true
}
