package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/buildinfo"
	"github.com/matzehuels/bundlescope/pkg/cache"
	"github.com/matzehuels/bundlescope/pkg/config"
	"github.com/matzehuels/bundlescope/pkg/observability"
	"github.com/matzehuels/bundlescope/pkg/pipeline"
	"github.com/matzehuels/bundlescope/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bundlescope"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every pipeline,
// cache and HTTP event is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
// Invoked with a bundle path and no subcommand it prints the plain report.
func (c *CLI) RootCommand() *cobra.Command {
	flags := defaultAnalyzeFlags()
	root := &cobra.Command{
		Use:   "bundlescope [bundle]",
		Short: "Bundlescope inspects the modules of a JavaScript bundle",
		Long: `Bundlescope finds the module records in a single-file JavaScript bundle,
splits them into application and library modules, and measures how deep
each module's dependency chain goes.`,
		Version:      buildinfo.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.runAnalyze(cmd, args[0], flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./bundlescope.toml or the user config dir)")
	flags.register(root)

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the config file once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, keyer, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	if cfg.Cache.TTL.Duration > 0 {
		runner.TTL = cfg.Cache.TTL.Duration
	}
	return runner, nil
}

// newCache picks the cache backend: none when disabled, Redis when a URL is
// configured, otherwise files under the cache directory.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil, nil
	}
	if cfg.Cache.URL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.URL, cache.DefaultRedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(nil, cache.DefaultRedisPrefix), nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil, nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// newStore opens the snapshot store: MongoDB when configured, otherwise the
// local snapshot directory.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Store.URI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Store.URI,
			Database:   cfg.Store.Database,
			Collection: cfg.Store.Collection,
		})
	}
	return store.NewFileStore("")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bundlescope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// openOutput returns the destination for command output: stdout for "" or
// "-", otherwise a created file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
