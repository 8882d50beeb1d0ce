package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/config"
	"github.com/matzehuels/bundlescope/pkg/extract"
	"github.com/matzehuels/bundlescope/pkg/observability"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// NewSearcher builds the searcher selected by opts.
func NewSearcher(opts Options) (extract.Searcher, error) {
	if opts.Searcher == config.SearcherBuiltin {
		return extract.NewScanSearcher(opts.Pattern)
	}
	return extract.NewProcessSearcher(opts.SearchCommand, opts.Pattern), nil
}

// Extract searches the bundle and parses the matched lines. It runs without
// the cache.
func Extract(ctx context.Context, opts Options) (*ModuleSet, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	searcher, err := NewSearcher(opts)
	if err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	hooks.OnExtractStart(ctx, opts.Path, searcher.Name())
	ext, err := extract.New(extract.Options{
		Searcher:  searcher,
		ChunkSize: opts.ChunkSize,
		Logger:    opts.Logger,
	}).Extract(ctx, opts.Path)
	if err != nil {
		hooks.OnExtractComplete(ctx, opts.Path, 0, 0, err)
		return nil, err
	}
	hooks.OnExtractComplete(ctx, opts.Path, len(ext.Lines), ext.Duration, nil)
	if ext.NoMatches {
		opts.Logger.Warn("no module records found", "path", opts.Path, "searcher", ext.Searcher)
	}

	parseStart := time.Now()
	parsed := bundle.Parse(ext.Lines, bundle.ParseOptions{Logger: opts.Logger})
	hooks.OnParseComplete(ctx, len(parsed.Modules), parsed.Failed, time.Since(parseStart))

	return &ModuleSet{Source: report.SourceOf(ext), Parsed: *parsed}, nil
}
