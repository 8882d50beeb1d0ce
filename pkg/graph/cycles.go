package graph

import "slices"

// analyzeCycles finds the strongly connected components of the graph with
// Tarjan's algorithm. Components are recorded in the order Tarjan completes
// them, which puts every component after all components it depends on.
// Dangling edges are ignored.
func (g *Graph) analyzeCycles() {
	var (
		index   = make(map[string]int, len(g.ids))
		low     = make(map[string]int, len(g.ids))
		onStack = make(map[string]bool)
		stack   []string
		next    int
	)

	var strong func(v string)
	strong = func(v string) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.outgoing[v] {
			if !g.Has(w) {
				continue
			}
			if _, seen := index[w]; !seen {
				strong(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var comp []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		g.components = append(g.components, comp)
	}

	for _, id := range g.ids {
		if _, seen := index[id]; !seen {
			strong(id)
		}
	}

	g.cyclic = make(map[string]bool)
	for _, comp := range g.components {
		if len(comp) > 1 || slices.Contains(g.outgoing[comp[0]], comp[0]) {
			for _, id := range comp {
				g.cyclic[id] = true
			}
		}
	}
}

// Cyclic reports whether module id lies on a dependency cycle, including a
// module that depends on itself.
func (g *Graph) Cyclic(id string) bool { return g.cyclic[id] }

// Cycles returns the groups of modules that depend on each other, each group
// in enumeration order. Groups are ordered by their first member.
func (g *Graph) Cycles() [][]string {
	pos := make(map[string]int, len(g.ids))
	for i, id := range g.ids {
		pos[id] = i
	}
	var out [][]string
	for _, comp := range g.components {
		if !g.cyclic[comp[0]] {
			continue
		}
		group := slices.Clone(comp)
		slices.SortFunc(group, func(a, b string) int { return pos[a] - pos[b] })
		out = append(out, group)
	}
	slices.SortFunc(out, func(a, b []string) int { return pos[a[0]] - pos[b[0]] })
	return out
}
