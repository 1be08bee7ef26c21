package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/buildinfo"
	"github.com/matzehuels/constellar/pkg/cache"
	"github.com/matzehuels/constellar/pkg/config"
	"github.com/matzehuels/constellar/pkg/tools"
)

// =============================================================================
// Constants
// =============================================================================

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

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "constellar",
		Short:        "Constellar lays out diagrams as Excalidraw scenes",
		Long:         `Constellar turns flowchart and architecture descriptions into laid-out Excalidraw elements, from the command line or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONSTELLAR_CONFIG"), "config file (TOML or YAML)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.flowchartCommand())
	root.AddCommand(c.architectureCommand())
	root.AddCommand(c.callCommand())
	root.AddCommand(c.toolsCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// config loads the configuration once per invocation.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Logger.Debug("loaded config", "file", c.configPath, "cache", cfg.Cache.Backend)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a tool runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*tools.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := tools.NewRunner(ch, nil, c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

// openCache opens the configured backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Disabled("--no-cache"), nil
	}
	ch, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		if cfg.Cache.Backend == cache.BackendFile {
			c.Logger.Warn("cache disabled", "dir", cfg.Cache.Dir, "error", err)
			return cache.Disabled("file cache unavailable"), nil
		}
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	return ch, nil
}
