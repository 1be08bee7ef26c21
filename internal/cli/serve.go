package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/internal/server"
	"github.com/matzehuels/constellar/pkg/observability"
)

// serveCommand creates the serve command, which exposes the tools over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		cors    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawing tools over HTTP",
		Long: `Start the HTTP API:

  GET  /health        service status and build info
  GET  /tools         tool catalogue with parameter descriptions
  POST /tools/{name}  run a tool; the body is its JSON arguments`,
		Example: `  constellar serve --addr :9000
  PORT=8000 constellar serve --cors https://excalidraw.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("cors") {
				cfg.Server.CORSOrigin = cors
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.NewLogHooks(c.Logger).Register()
			defer observability.Reset()

			srv := server.New(runner, c.Logger, server.Options{CORSOrigin: cfg.Server.CORSOrigin})
			printKeyValue("listen", cfg.Server.Addr)
			printKeyValue("cache", cfg.Cache.Backend)
			if cfg.Server.CORSOrigin != "" {
				printKeyValue("cors", cfg.Server.CORSOrigin)
			}
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config and PORT)")
	cmd.Flags().StringVar(&cors, "cors", "", `allowed CORS origin; "" disables CORS`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	return cmd
}
