package graph

import (
	"slices"

	"github.com/matzehuels/bundlescope/pkg/bundle"
)

// Edge is a dependency edge from a module to one of its dependency ids.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a read-only dependency view over a module set, keyed by module id.
//
// A Graph is built once by [New] and never modified afterwards, so all
// methods are safe for concurrent use.
type Graph struct {
	ids      []string            // module ids in enumeration order
	names    map[string]string   // id -> verbose name
	outgoing map[string][]string // id -> dependency ids, as declared
	incoming map[string][]string // id -> ids of modules that depend on it

	components [][]string // strongly connected components, sinks first
	cyclic     map[string]bool
}

// New builds the graph for modules. Module order is kept as the enumeration
// order for [Graph.IDs] and [Graph.Depths]. A repeated id keeps its first
// position and the dependencies of its last record.
func New(modules []bundle.Module) *Graph {
	g := &Graph{
		ids:      make([]string, 0, len(modules)),
		names:    make(map[string]string, len(modules)),
		outgoing: make(map[string][]string, len(modules)),
		incoming: make(map[string][]string),
	}
	for _, m := range modules {
		if _, ok := g.outgoing[m.ID]; !ok {
			g.ids = append(g.ids, m.ID)
		}
		deps := m.Dependencies
		if deps == nil {
			deps = []string{}
		}
		g.outgoing[m.ID] = slices.Clone(deps)
		g.names[m.ID] = m.VerboseName
	}
	for _, id := range g.ids {
		for _, dep := range g.outgoing[id] {
			if _, ok := g.outgoing[dep]; ok && !slices.Contains(g.incoming[dep], id) {
				g.incoming[dep] = append(g.incoming[dep], id)
			}
		}
	}
	g.analyzeCycles()
	return g
}

// Len returns the number of modules.
func (g *Graph) Len() int { return len(g.ids) }

// IDs returns the module ids in enumeration order.
func (g *Graph) IDs() []string { return slices.Clone(g.ids) }

// Has reports whether id is a module of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.outgoing[id]
	return ok
}

// Name returns the verbose name of module id, or "" if it is unknown.
func (g *Graph) Name(id string) string { return g.names[id] }

// Dependencies returns the declared dependency ids of module id, including
// ids that are not in the graph.
func (g *Graph) Dependencies(id string) []string { return slices.Clone(g.outgoing[id]) }

// Dependents returns the modules that declare id as a dependency, in
// enumeration order.
func (g *Graph) Dependents(id string) []string { return slices.Clone(g.incoming[id]) }

// Dangling returns every edge whose target is not a module of the graph, in
// enumeration order.
func (g *Graph) Dangling() []Edge {
	var out []Edge
	for _, id := range g.ids {
		for _, dep := range g.outgoing[id] {
			if !g.Has(dep) {
				out = append(out, Edge{From: id, To: dep})
			}
		}
	}
	return out
}

// Edges returns every declared dependency edge, dangling ones included.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range g.ids {
		for _, dep := range g.outgoing[id] {
			out = append(out, Edge{From: id, To: dep})
		}
	}
	return out
}
