package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/buildinfo"
	"github.com/matzehuels/bundlescope/pkg/pipeline"
	"github.com/matzehuels/bundlescope/pkg/server"
	"github.com/matzehuels/bundlescope/pkg/store"
)

// shutdownGrace bounds how long in-flight requests may finish after an
// interrupt.
const shutdownGrace = 10 * time.Second

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		root    string
		timeout time.Duration
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve exposes bundle analysis as a JSON API. Request paths are resolved
against --root and may not leave it.

  GET  /healthz
  POST /v1/analyze             {"path": "...", "depths": true, "save": false}
  GET  /v1/graph?path=...&format=svg&app_only=true
  GET  /v1/snapshots?bundle=...&limit=20
  GET  /v1/snapshots/{id}

Snapshots are kept in MongoDB when [store] uri is configured, otherwise in
memory for the life of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if !fs.Changed("addr") {
				addr = cfg.Serve.Addr
			}
			if !fs.Changed("root") {
				root = cfg.Serve.BundleRoot
			}
			if !fs.Changed("timeout") {
				timeout = cfg.Serve.Timeout.Duration
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var st store.Store
			if cfg.Store.URI != "" {
				if st, err = c.newStore(ctx, cfg); err != nil {
					return err
				}
			} else {
				printWarning("No [store] uri configured; snapshots are kept in memory")
				st = store.NewMemoryStore()
			}
			defer st.Close()

			defaults := pipeline.FromConfig(cfg, "")
			api := server.NewAPI(runner, server.Options{
				Root:     root,
				Timeout:  timeout,
				Defaults: defaults,
				Store:    st,
				Logger:   c.Logger,
			})

			printKeyValue("Version", buildinfo.Short())
			printKeyValue("Listening", addr)
			printKeyValue("Bundles", root)
			printKeyValue("Searcher", defaults.Searcher)
			return server.New(addr, api.Routes(), c.Logger).Run(ctx, shutdownGrace)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&root, "root", "", "directory request paths are resolved against (default .)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request analysis limit (default 2m)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the module cache")
	return cmd
}
