// Package pipeline runs the bundle analysis pipeline for every entry point.
//
// This package implements the complete extract → parse → analyze → report
// pipeline used by the CLI and the HTTP API. By centralizing this logic,
// both produce identical reports and share one caching scheme.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Extract: search the bundle for candidate module record lines
//  2. Parse: turn record lines into modules
//  3. Analyze: classify modules and compute dependency depths
//  4. Report: assemble the serializable [report.Report]
//
// Stages 1 and 2 are cached together as a module set keyed by the bundle's
// path, size and modification time. A graph rendering stage reuses the
// cached module set.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:   "main.jsbundle",
//	    Depths: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.WriteText(os.Stdout, result.Report)
//
// [report.Report]: github.com/matzehuels/bundlescope/pkg/report.Report
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/cache"
	"github.com/matzehuels/bundlescope/pkg/config"
	"github.com/matzehuels/bundlescope/pkg/errors"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Extract options
	Path          string `json:"path"`
	Searcher      string `json:"searcher,omitempty"`       // "rg" or "builtin"
	SearchCommand string `json:"search_command,omitempty"` // Binary for the rg searcher
	Pattern       string `json:"pattern,omitempty"`        // Record pattern, in the searcher's syntax
	ChunkSize     int    `json:"chunk_size,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"` // Ignore cached module sets

	// Analyze options
	VendorMarker string `json:"vendor_marker,omitempty"`
	Depths       bool   `json:"depths,omitempty"`
	Workers      int    `json:"workers,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig returns options for path with every setting taken from cfg.
func FromConfig(cfg config.Config, path string) Options {
	return Options{
		Path:          path,
		Searcher:      cfg.Searcher,
		SearchCommand: cfg.SearchCommand,
		Pattern:       cfg.Pattern,
		ChunkSize:     cfg.ChunkSize,
		VendorMarker:  cfg.VendorMarker,
		Workers:       cfg.Workers,
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "bundle path is required")
	}
	if o.Searcher == "" {
		o.Searcher = config.SearcherRipgrep
	}
	if o.Searcher != config.SearcherRipgrep && o.Searcher != config.SearcherBuiltin {
		return errors.New(errors.ErrCodeInvalidConfig,
			"searcher must be %q or %q, got %q", config.SearcherRipgrep, config.SearcherBuiltin, o.Searcher)
	}
	if o.VendorMarker == "" {
		o.VendorMarker = analyze.DefaultVendorMarker
	}
	if err := errors.ValidateVendorMarker(o.VendorMarker); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ModulesKeyOpts returns cache key options for the module set.
func (o *Options) ModulesKeyOpts() cache.ModulesKeyOpts {
	return cache.ModulesKeyOpts{
		Searcher: o.Searcher,
		Command:  o.SearchCommand,
		Pattern:  o.Pattern,
	}
}

// =============================================================================
// Results
// =============================================================================

// ModuleSet is the cached outcome of the extract and parse stages.
type ModuleSet struct {
	Source report.Source     `json:"source"`
	Parsed bundle.ParseResult `json:"parsed"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Modules is the extracted and parsed module set.
	Modules *ModuleSet

	// Analysis holds classification and depth results.
	Analysis *analyze.Result

	// Report is the serializable summary of the run.
	Report *report.Report

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ExtractTime time.Duration // Extract and parse, or the cache lookup on a hit
	AnalyzeTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ModulesHit bool // Whether the module set came from cache
}
