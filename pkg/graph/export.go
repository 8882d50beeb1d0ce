package graph

import (
	"encoding/json"
	"fmt"
	"io"
)

// NodeLink is the node-link serialization of a graph, used for JSON output
// and as the input to renderers.
//
//	{
//	  "nodes": [{"id": "0", "label": "App.tsx"}, {"id": "9", "dangling": true}],
//	  "edges": [{"from": "0", "to": "9"}]
//	}
type NodeLink struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one vertex of a [NodeLink].
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Dangling bool   `json:"dangling,omitempty"` // Referenced but not declared
	Cyclic   bool   `json:"cyclic,omitempty"`   // On a dependency cycle
}

// Export converts the graph to node-link form. Modules come first in
// enumeration order, followed by one node per distinct dangling target in
// order of first reference. When keep is non-nil only modules it accepts are
// exported, along with the edges and dangling targets between them.
func (g *Graph) Export(keep func(id string) bool) NodeLink {
	out := NodeLink{Nodes: []Node{}, Edges: []Edge{}}
	kept := make(map[string]bool, len(g.ids))
	for _, id := range g.ids {
		if keep != nil && !keep(id) {
			continue
		}
		kept[id] = true
		out.Nodes = append(out.Nodes, Node{ID: id, Label: g.names[id], Cyclic: g.cyclic[id]})
	}

	missing := make(map[string]bool)
	for _, id := range g.ids {
		if !kept[id] {
			continue
		}
		for _, dep := range g.outgoing[id] {
			switch {
			case kept[dep]:
			case !g.Has(dep):
				if !missing[dep] {
					missing[dep] = true
					out.Nodes = append(out.Nodes, Node{ID: dep, Dangling: true})
				}
			default:
				continue
			}
			out.Edges = append(out.Edges, Edge{From: id, To: dep})
		}
	}
	return out
}

// WriteJSON writes nl as indented JSON.
func WriteJSON(w io.Writer, nl NodeLink) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nl); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
