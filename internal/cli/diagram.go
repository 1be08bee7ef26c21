package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/config"
	"github.com/matzehuels/constellar/pkg/diagram"
)

type diagramOpts struct {
	out     outputOpts
	seed    uint64
	noCache bool
}

func (o *diagramOpts) register(cmd *cobra.Command) {
	o.out.register(cmd)
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "seed for reproducible element ids (enables caching)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the result cache")
}

// flowchartCommand creates the flowchart command.
func (c *CLI) flowchartCommand() *cobra.Command {
	var opts diagramOpts
	cmd := &cobra.Command{
		Use:   "flowchart <nodes.json>",
		Short: "Lay out a flowchart as Excalidraw elements",
		Long: `Lay out a flowchart document ({"nodes": [...]}) in levels, placing decision
branches side by side, and write the resulting Excalidraw elements.`,
		Example: `  constellar flowchart signup.json -o signup.excalidraw
  constellar flowchart signup.json --seed 1 | jq '.elements | length'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := diagram.ImportFlowchart(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			toolArgs := flowchartArgs(cfg, doc)
			return c.runDiagram(cmd, "create_advanced_flowchart", withSeed(cmd, toolArgs, opts.seed), len(doc.Nodes), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// architectureCommand creates the architecture command.
func (c *CLI) architectureCommand() *cobra.Command {
	var opts diagramOpts
	cmd := &cobra.Command{
		Use:   "architecture <diagram.json>",
		Short: "Lay out a system architecture as Excalidraw elements",
		Long: `Lay out an architecture document ({"components": [...], "connections": [...]})
on its explicit layers and write the resulting Excalidraw elements.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := diagram.ImportArchitecture(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			toolArgs := architectureArgs(cfg, doc)
			return c.runDiagram(cmd, "create_system_architecture", withSeed(cmd, toolArgs, opts.seed), len(doc.Components), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runDiagram(cmd *cobra.Command, tool string, args map[string]any, nodes int, opts diagramOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.Run(ctx, tool, raw)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", nodes))
	printStats(nodes, res.Count, res.Cached)

	return opts.out.write(cmd.OutOrStdout(), res.Elements)
}

// flowchartArgs maps a flowchart document and the configured geometry onto
// create_advanced_flowchart arguments.
func flowchartArgs(cfg *config.Config, doc *diagram.Flowchart) map[string]any {
	nodes := doc.Nodes
	if nodes == nil {
		nodes = []diagram.Node{}
	}
	l := cfg.Layout
	return map[string]any{
		"nodes":             nodes,
		"nodeWidth":         l.NodeWidth,
		"nodeHeight":        l.NodeHeight,
		"horizontalSpacing": l.HorizontalSpacing,
		"verticalSpacing":   l.VerticalSpacing,
	}
}

// architectureArgs maps an architecture document and the configured
// geometry onto create_system_architecture arguments.
func architectureArgs(cfg *config.Config, doc *diagram.Architecture) map[string]any {
	comps := doc.Components
	if comps == nil {
		comps = []diagram.Component{}
	}
	conns := doc.Connections
	if conns == nil {
		conns = []diagram.Connection{}
	}
	l := cfg.Layout
	return map[string]any{
		"components":        comps,
		"connections":       conns,
		"componentWidth":    l.ComponentWidth,
		"componentHeight":   l.ComponentHeight,
		"horizontalSpacing": l.ComponentHSpacing,
		"verticalSpacing":   l.ComponentVSpacing,
	}
}
