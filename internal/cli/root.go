package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/config"
	"github.com/matzehuels/bundlescope/pkg/pipeline"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// analyzeFlags are shared by the root command and "analyze".
type analyzeFlags struct {
	depth     bool
	format    string
	marker    string
	searcher  string
	workers   int
	chunkSize int
	noCache   bool
	refresh   bool
	save      bool
	output    string
}

func defaultAnalyzeFlags() *analyzeFlags {
	return &analyzeFlags{format: string(report.FormatText)}
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVarP(&f.depth, "depth", "d", f.depth, "compute the dependency depth of every module")
	fs.StringVarP(&f.format, "format", "f", f.format, "report format: text, table, json, yaml")
	fs.StringVar(&f.marker, "marker", "", "substring that marks library modules (default node_modules)")
	fs.StringVar(&f.searcher, "searcher", "", "record searcher: rg or builtin")
	fs.IntVar(&f.workers, "workers", 0, "parallel depth workers (0 or 1 runs sequentially)")
	fs.IntVar(&f.chunkSize, "chunk-size", 0, "bytes read from the search output at once")
	fs.BoolVar(&f.noCache, "no-cache", false, "do not read or write the module cache")
	fs.BoolVar(&f.refresh, "refresh", false, "re-extract even when the module cache is fresh")
	fs.BoolVar(&f.save, "save", false, "store the report as a snapshot")
	fs.StringVarP(&f.output, "output", "o", "", "write the report to a file instead of stdout")
}

// options merges config and flags. Flags that were set win over the config
// file, which wins over defaults.
func (f *analyzeFlags) options(cmd *cobra.Command, cfg config.Config, path string) pipeline.Options {
	opts := pipeline.FromConfig(cfg, path)
	fs := cmd.Flags()
	if fs.Changed("marker") {
		opts.VendorMarker = f.marker
	}
	if fs.Changed("searcher") {
		opts.Searcher = f.searcher
	}
	if fs.Changed("workers") {
		opts.Workers = f.workers
	}
	if fs.Changed("chunk-size") {
		opts.ChunkSize = f.chunkSize
	}
	opts.Depths = f.depth
	opts.Refresh = f.refresh
	return opts
}

// analyzeCommand creates the "analyze" command, the explicit form of the root
// command.
func (c *CLI) analyzeCommand() *cobra.Command {
	flags := defaultAnalyzeFlags()
	cmd := &cobra.Command{
		Use:   "analyze <bundle>",
		Short: "Report the application and library modules of a bundle",
		Long: `Analyze searches a bundle for module records and reports how many were found,
which are application code and which come from libraries. With --depth it
also reports every module's dependency depth, shallowest first.`,
		Example: `  bundlescope analyze main.jsbundle
  bundlescope analyze --depth --format table main.jsbundle
  bundlescope analyze --searcher builtin --format json -o report.json main.jsbundle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path string, f *analyzeFlags) error {
	ctx := cmd.Context()
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, f.options(cmd, cfg, path))
	if err != nil {
		return err
	}
	prog.done("Analyzed " + path)

	if f.save {
		st, err := c.newStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Save(ctx, res.Report)
		if err != nil {
			return err
		}
		printSuccess("Saved snapshot %s", StyleHighlight.Render(id))
	}

	w, closeOut, err := openOutput(cmd, f.output)
	if err != nil {
		return err
	}
	if err := report.Write(w, res.Report, format); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if f.output != "" && f.output != "-" {
		printFile(f.output)
	}
	return nil
}
