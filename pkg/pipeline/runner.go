package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/cache"
	"github.com/matzehuels/bundlescope/pkg/observability"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeModules  = "modules"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete extract → parse → analyze → report pipeline.
// Errors are prefixed with the bundle path.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", opts.Path, err)
	}

	result := &Result{}

	// Stage 1+2: Extract and parse
	extractStart := time.Now()
	ms, hit, err := r.ModulesWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", opts.Path, err)
	}
	result.Modules = ms
	result.Stats.ExtractTime = time.Since(extractStart)
	result.CacheInfo.ModulesHit = hit

	r.Logger.Info("parsed modules",
		"path", opts.Path,
		"lines", ms.Source.MatchedLines,
		"modules", len(ms.Parsed.Modules),
		"failed", ms.Parsed.Failed,
		"cached", hit,
		"duration", result.Stats.ExtractTime)

	// Stage 3: Analyze
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(ms.Parsed.Modules), opts.Depths)
	res, err := analyze.Analyze(ctx, ms.Parsed.Modules, analyze.Options{
		VendorMarker: opts.VendorMarker,
		Depths:       opts.Depths,
		Workers:      opts.Workers,
		Logger:       opts.Logger,
	})
	if err != nil {
		hooks.OnAnalyzeComplete(ctx, 0, err)
		return nil, fmt.Errorf("analyze %s: %w", opts.Path, err)
	}
	hooks.OnAnalyzeComplete(ctx, res.Duration, nil)
	result.Analysis = res
	result.Stats.AnalyzeTime = res.Duration

	// Stage 4: Report
	result.Report = report.New(ms.Source, &ms.Parsed, res)
	return result, nil
}

// ModulesWithCacheInfo extracts and parses the bundle, or loads the module
// set from cache, and reports whether it was a cache hit.
//
// A bundle that cannot be stat'ed is extracted without the cache so the
// searcher reports the failure.
func (r *Runner) ModulesWithCacheInfo(ctx context.Context, opts Options) (*ModuleSet, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	stamp, err := cache.Stamp(opts.Path)
	if err != nil {
		r.Logger.Debug("bundle not stamped, skipping cache", "path", opts.Path, "err", err)
		ms, err := Extract(ctx, opts)
		return ms, false, err
	}
	cacheKey := r.Keyer.ModulesKey(stamp, opts.ModulesKeyOpts())
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if ms, ok := r.loadModules(ctx, cacheKey); ok {
			hooks.OnCacheHit(ctx, keyTypeModules)
			// Parse warned about these on the run that filled the cache.
			for _, line := range ms.Parsed.FailedLines {
				opts.Logger.Warn("skipping unparseable record", "line", line, "length", len(line))
			}
			return ms, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeModules)
	}

	ms, err := Extract(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(ms); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeModules, len(data))
		}
	}
	return ms, false, nil
}

// Modules is a convenience wrapper that calls ModulesWithCacheInfo and discards the cache hit info.
func (r *Runner) Modules(ctx context.Context, opts Options) (*ModuleSet, error) {
	ms, _, err := r.ModulesWithCacheInfo(ctx, opts)
	return ms, err
}

func (r *Runner) loadModules(ctx context.Context, key string) (*ModuleSet, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var ms ModuleSet
	if err := json.Unmarshal(data, &ms); err != nil {
		// If deserialization fails, fall through to recompute
		r.Logger.Debug("discarding corrupt cache entry", "key", key, "err", err)
		return nil, false
	}
	return &ms, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
