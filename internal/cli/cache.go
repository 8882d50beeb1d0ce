package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlescope/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the module cache",
		Long: `Parsed module sets and rendered graphs are cached per bundle, keyed by the
bundle's size and modification time, so unchanged bundles are not searched
again. The cache lives under the user cache directory, or in Redis when
[cache] url is configured.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached module sets and graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Cache.Disabled {
				printInfo("Cache is disabled")
				return nil
			}
			cc, _, err := c.newCache(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", cacheLocation(cfg.Cache.URL, cc))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Cache.URL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.URL)
				return nil
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func cacheLocation(url string, cc cache.Cache) string {
	if fc, ok := cc.(*cache.FileCache); ok {
		return fc.Dir()
	}
	return url
}
