package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/cache"
	"github.com/matzehuels/bundlescope/pkg/graph"
	"github.com/matzehuels/bundlescope/pkg/observability"
	"github.com/matzehuels/bundlescope/pkg/render"
	"github.com/matzehuels/bundlescope/pkg/render/nodelink"
)

// GraphOptions configures a graph rendering.
type GraphOptions struct {
	Format   render.Format
	AppOnly  bool // Drop library modules
	Detailed bool // Full module names in labels
}

// ArtifactKeyOpts returns cache key options for the rendering.
func (g GraphOptions) ArtifactKeyOpts(marker string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       string(g.Format),
		VendorMarker: marker,
		AppOnly:      g.AppOnly,
		Detailed:     g.Detailed,
	}
}

// NodeLink builds the node-link form of a module set. With appOnly, library
// modules are left out.
func NodeLink(ms *ModuleSet, marker string, appOnly bool) graph.NodeLink {
	mods := ms.Parsed.Modules
	g := graph.New(mods)
	if !appOnly {
		return g.Export(nil)
	}
	index := bundle.Index(mods)
	return g.Export(func(id string) bool {
		return !analyze.IsLibrary(mods[index[id]], marker)
	})
}

// Render draws the module set in the requested format.
func Render(ctx context.Context, ms *ModuleSet, marker string, gopts GraphOptions) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(gopts.Format))
	start := time.Now()

	nl := NodeLink(ms, marker, gopts.AppOnly)
	data, err := render.Render(ctx, nl, gopts.Format, nodelink.Options{
		Detailed: gopts.Detailed,
		IsLibrary: func(n graph.Node) bool {
			return !n.Dangling && analyze.IsLibrary(bundle.Module{VerboseName: n.Label}, marker)
		},
	})
	hooks.OnRenderComplete(ctx, string(gopts.Format), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", gopts.Format, err)
	}
	return data, nil
}

// GraphWithCacheInfo renders the bundle's module graph with caching and
// returns cache hit info. The artifact is keyed by the module set's content,
// so an unchanged bundle renders once per option set.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, opts Options, gopts GraphOptions) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("graph %s: %w", opts.Path, err)
	}
	if _, err := render.ParseFormat(string(gopts.Format)); err != nil {
		return nil, false, err
	}

	ms, err := r.Modules(ctx, opts)
	if err != nil {
		return nil, false, fmt.Errorf("graph %s: %w", opts.Path, err)
	}

	modulesData, err := json.Marshal(ms.Parsed.Modules)
	if err != nil {
		return nil, false, fmt.Errorf("serialize modules for cache key: %w", err)
	}
	cacheKey := r.Keyer.ArtifactKey(cache.Hash(modulesData), gopts.ArtifactKeyOpts(opts.VendorMarker))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
	}

	data, err := Render(ctx, ms, opts.VendorMarker, gopts)
	if err != nil {
		return nil, false, fmt.Errorf("graph %s: %w", opts.Path, err)
	}
	if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err == nil {
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}

// Graph is a convenience wrapper that calls GraphWithCacheInfo and discards the cache hit info.
func (r *Runner) Graph(ctx context.Context, opts Options, gopts GraphOptions) ([]byte, error) {
	data, _, err := r.GraphWithCacheInfo(ctx, opts, gopts)
	return data, err
}
