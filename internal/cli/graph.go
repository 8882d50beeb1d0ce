package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/pipeline"
	"github.com/matzehuels/bundlescope/pkg/render"
)

// graphFlags holds the flags for the graph command.
type graphFlags struct {
	output   string
	format   string
	appOnly  bool
	detailed bool
	marker   string
	searcher string
	noCache  bool
	refresh  bool
}

// graphCommand creates the "graph" command.
func (c *CLI) graphCommand() *cobra.Command {
	flags := graphFlags{}
	cmd := &cobra.Command{
		Use:   "graph <bundle>",
		Short: "Render the module dependency graph",
		Long: `Graph draws every module of a bundle as a node with an edge to each of its
dependencies. Application modules are shaded blue, library modules gray,
dependencies on undeclared ids are dashed and modules on a cycle are
outlined red.

The format is taken from --format, then from the output file's extension,
and defaults to SVG. DOT and JSON are written as text; PDF output needs
rsvg-convert on the PATH.`,
		Example: `  bundlescope graph -o modules.svg main.jsbundle
  bundlescope graph --app-only --format dot main.jsbundle | dot -Tpng > app.png
  bundlescope graph --detailed -o modules.pdf main.jsbundle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: dot, svg, png, pdf, json")
	cmd.Flags().BoolVar(&flags.appOnly, "app-only", false, "leave library modules out of the graph")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "label nodes with full module names and ids")
	cmd.Flags().StringVar(&flags.marker, "marker", "", "substring that marks library modules (default node_modules)")
	cmd.Flags().StringVar(&flags.searcher, "searcher", "", "record searcher: rg or builtin")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "do not read or write the cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-extract and re-render even when cached")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, flags graphFlags) error {
	ctx := cmd.Context()

	format := render.FormatFromPath(flags.output)
	if flags.format != "" {
		f, err := render.ParseFormat(flags.format)
		if err != nil {
			return err
		}
		format = f
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	opts := pipeline.FromConfig(cfg, path)
	if flags.marker != "" {
		opts.VendorMarker = flags.marker
	}
	if flags.searcher != "" {
		opts.Searcher = flags.searcher
	}
	opts.Refresh = flags.refresh

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	toFile := flags.output != "" && flags.output != "-"
	var spinner *Spinner
	if toFile {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
	}

	data, cached, err := runner.GraphWithCacheInfo(ctx, opts, pipeline.GraphOptions{
		Format:   format,
		AppOnly:  flags.appOnly,
		Detailed: flags.detailed,
	})
	if spinner != nil {
		if err != nil && !spinner.Interrupted() {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, flags.output)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = closeOut()
		return fmt.Errorf("write graph: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	if toFile {
		printSuccess("Rendered graph")
		printFile(flags.output)
		printStats(string(format), len(data), cached)
	}
	return nil
}
