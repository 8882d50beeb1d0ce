package analyze

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/graph"
)

// ModuleDepth pairs a module with its computed depth.
type ModuleDepth struct {
	Module  bundle.Module
	Depth   int
	Library bool
	Cyclic  bool
}

// SortByDepth sorts depths ascending in place. Modules of equal depth keep
// their relative order.
func SortByDepth(depths []ModuleDepth) {
	slices.SortStableFunc(depths, func(a, b ModuleDepth) int {
		return a.Depth - b.Depth
	})
}

// Options configures [Analyze].
type Options struct {
	// VendorMarker classifies library modules. Defaults to
	// [DefaultVendorMarker].
	VendorMarker string

	// Depths enables the depth computation. Classification and graph
	// statistics are always produced.
	Depths bool

	// Workers is passed to [graph.DepthOptions].
	Workers int

	// Logger receives debug output. Defaults to log.Default().
	Logger *log.Logger
}

// Result is the outcome of analyzing one module set.
type Result struct {
	Classification

	// Depths holds every module's depth sorted by [SortByDepth]. It is nil
	// unless [Options.Depths] was set.
	Depths []ModuleDepth

	Dangling int // Dependency edges to ids outside the set
	Cyclic   int // Modules on a dependency cycle
	MaxDepth int // Largest depth, 0 when depths were not computed

	Duration time.Duration
}

// Analyze classifies modules and, when requested, computes their depths.
// The only error is ctx's, from an interrupted depth computation.
func Analyze(ctx context.Context, modules []bundle.Module, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	start := time.Now()

	g := graph.New(modules)
	res := &Result{
		Classification: Classify(modules, opts.VendorMarker),
		Dangling:       len(g.Dangling()),
	}
	for _, id := range g.IDs() {
		if g.Cyclic(id) {
			res.Cyclic++
		}
	}

	if opts.Depths {
		depths, err := g.Depths(ctx, graph.DepthOptions{Workers: opts.Workers})
		if err != nil {
			return nil, err
		}
		res.Depths = Join(modules, depths, opts.VendorMarker, g)
		SortByDepth(res.Depths)
		for _, d := range res.Depths {
			res.MaxDepth = max(res.MaxDepth, d.Depth)
		}
	}

	res.Duration = time.Since(start)
	logger.Debug("analysis complete",
		"modules", len(modules),
		"application", len(res.Application),
		"library", len(res.Library),
		"dangling", res.Dangling,
		"cyclic", res.Cyclic,
		"max_depth", res.MaxDepth,
		"duration", res.Duration)
	return res, nil
}

// Join attaches graph depths to their modules, in the order of depths.
// Depths for ids not in modules are dropped.
func Join(modules []bundle.Module, depths []graph.Depth, marker string, g *graph.Graph) []ModuleDepth {
	if marker == "" {
		marker = DefaultVendorMarker
	}
	byID := bundle.Index(modules)
	out := make([]ModuleDepth, 0, len(depths))
	for _, d := range depths {
		i, ok := byID[d.ID]
		if !ok {
			continue
		}
		m := modules[i]
		out = append(out, ModuleDepth{
			Module:  m,
			Depth:   d.Depth,
			Library: IsLibrary(m, marker),
			Cyclic:  g != nil && g.Cyclic(m.ID),
		})
	}
	return out
}
