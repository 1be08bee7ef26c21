package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear cached tool results and previews",
	}

	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCache opens the configured file cache. Other backends have no local
// state to inspect.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Backend != cache.BackendFile {
		printWarning("cache commands only apply to the file backend (configured: %s)", cfg.Cache.Backend)
		return nil, nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached entries per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil || fc == nil {
				return err
			}
			stats, err := fc.Stats()
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				printInfo("Cache is empty")
				return nil
			}
			t := newTable("Kind", "Entries", "Size")
			for _, st := range stats {
				t.Row(st.Kind, fmt.Sprint(st.Entries), humanSize(st.Bytes))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var (
		kinds   []string
		expired bool
	)
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		Long: `Remove cached entries from the file cache. By default everything is removed;
--kind limits the clear to tool results or previews, and --expired removes
only entries past their TTL.`,
		Example: `  constellar cache clear
  constellar cache clear --kind preview
  constellar cache clear --expired`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil || fc == nil {
				return err
			}

			var n int
			if expired {
				n, err = fc.Prune()
			} else {
				n, err = fc.Clear(kinds...)
			}
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "entry kinds to clear (tool, preview)")
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	cmd.MarkFlagsMutuallyExclusive("kind", "expired")
	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(
		[]string{cache.KindTool, cache.KindPreview}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
