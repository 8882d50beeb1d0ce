// Package pkg provides the libraries behind bundlescope, a tool for
// inspecting the modules of single-file JavaScript bundles.
//
// # Overview
//
// A bundle built by a module bundler such as Metro declares every module as
// a record carrying a numeric id, the ids it depends on and the module's
// source path. Bundlescope finds those records, parses them, splits the
// modules into application code and library code, and measures how deep
// each module's dependency chain reaches.
//
// # Architecture
//
// The data flow through bundlescope:
//
//	Bundle file
//	     ↓
//	[extract] package (search for record lines, ripgrep or in-process)
//	     ↓
//	[bundle] package (parse records into modules)
//	     ↓
//	[graph] package (dependency graph, cycles, depths)
//	     ↓
//	[analyze] package (classification + depth rows)
//	     ↓
//	[report] package (text, table, JSON, YAML)  or  [render] package (DOT, SVG, PNG, PDF)
//
// [pipeline] runs these stages with caching through [cache]. [store] keeps
// reports as snapshots, [server] exposes the pipeline over HTTP, and
// [config] loads settings from bundlescope.toml.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{Path: "main.jsbundle", Depths: true})
//	if err != nil {
//	    return err
//	}
//	report.Write(os.Stdout, res.Report, report.FormatText)
package pkg
