package graph

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many module visits a depth walk makes between
// context checks.
const ctxCheckInterval = 4096

// Depth is the computed depth of one module.
type Depth struct {
	ID    string `json:"id" yaml:"id"`
	Depth int    `json:"depth" yaml:"depth"`
}

// DepthOptions configures [Graph.Depths].
type DepthOptions struct {
	// Workers is the number of modules computed in parallel. Values below 2
	// compute sequentially.
	Workers int
}

// Depth returns the depth of module id. The second result is false when id
// is not a module of the graph.
//
// A module without dependencies has depth 1. Otherwise its depth is one more
// than the largest contribution of its dependencies, where a dependency
// contributes its own depth and a dangling dependency contributes 1. Every
// id reached is marked visited for the rest of the computation, and a
// visited id contributes 0 when reached again.
func (g *Graph) Depth(id string) (int, bool) {
	if !g.Has(id) {
		return 0, false
	}
	return newWalker(context.Background(), g).depth(id), true
}

// Depths computes the depth of every module and returns them in enumeration
// order. Each module is computed with a fresh visited set, so one
// computation touches every reachable id at most once.
func (g *Graph) Depths(ctx context.Context, opts DepthOptions) ([]Depth, error) {
	out := make([]Depth, len(g.ids))

	if opts.Workers < 2 {
		for i, id := range g.ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			w := newWalker(ctx, g)
			out[i] = Depth{ID: id, Depth: w.depth(id)}
			if w.err != nil {
				return nil, w.err
			}
		}
		return out, nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, id := range g.ids {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			w := newWalker(gctx, g)
			out[i] = Depth{ID: id, Depth: w.depth(id)}
			return w.err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// walker computes one module's depth. Its visited set is private and is
// never unwound.
type walker struct {
	ctx     context.Context
	g       *Graph
	visited map[string]bool
	err     error
}

func newWalker(ctx context.Context, g *Graph) *walker {
	return &walker{ctx: ctx, g: g, visited: make(map[string]bool)}
}

func (w *walker) depth(id string) int {
	if w.err != nil || w.visited[id] {
		return 0
	}
	w.visited[id] = true
	if len(w.visited)%ctxCheckInterval == 0 {
		if err := w.ctx.Err(); err != nil {
			w.err = err
			return 0
		}
	}

	deps, ok := w.g.outgoing[id]
	if !ok || len(deps) == 0 {
		return 1
	}
	best := 0
	for _, dep := range deps {
		best = max(best, w.depth(dep))
	}
	return 1 + best
}
