package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depskew/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the resolved tree cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Context(), ".")
			if err != nil {
				return err
			}
			store, err := c.openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend does not support clearing")
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo(c.Stdout, "Cache is empty")
				return nil
			}
			printSuccess(c.Stdout, "Cleared %d cached entries", n)
			printDetail(c.Stdout, "Location: %s", cacheLocation(cfg.Cache.URL))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Context(), ".")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Stdout, cacheLocation(cfg.Cache.URL))
			return nil
		},
	}
}

// cacheLocation returns url, or the cache directory when url is empty.
func cacheLocation(url string) string {
	if url != "" {
		return url
	}
	dir, err := cacheDir()
	if err != nil {
		return "(unknown)"
	}
	return dir
}
