package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/cache"
	"github.com/matzehuels/constellar/pkg/diagram"
	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/observability"
	"github.com/matzehuels/constellar/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

type previewOpts struct {
	output   string
	format   string
	detailed bool
	noCache  bool
}

// previewCommand creates the preview command, which draws a quick Graphviz
// rendering of a flowchart or architecture document.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{format: formatSVG}
	cmd := &cobra.Command{
		Use:   "preview <file.json>",
		Short: "Render a Graphviz preview of a diagram document",
		Long: `Render a flowchart ("nodes") or architecture ("components") document with
Graphviz. Levels computed by the layout engine become DOT ranks, so the
preview shows the same top-down structure as the Excalidraw output.`,
		Example: `  constellar preview flow.json -o flow.svg
  constellar preview arch.json --format dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg or dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids, kinds and levels in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{formatSVG, formatDOT}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, path string, opts previewOpts) error {
	ctx := cmd.Context()
	if opts.format != formatSVG && opts.format != formatDOT {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want svg or dot)", opts.format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	ch, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	key := cache.NewDefaultKeyer().PreviewKey(cache.Hash(data), cache.PreviewKeyOpts{
		Format:   opts.format,
		Detailed: opts.detailed,
	})
	if out, ok, _ := ch.Get(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, cache.KindPreview)
		c.Logger.Debug("preview cache hit", "file", path)
		return writePreview(cmd.OutOrStdout(), opts.output, out)
	}
	if _, off := cache.IsDisabled(ch); !off {
		observability.Cache().OnCacheMiss(ctx, cache.KindPreview)
	}

	dot, err := previewDOT(data, nodelink.Options{Detailed: opts.detailed})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := []byte(dot)
	if opts.format == formatSVG {
		spinner := newSpinner(ctx, "Rendering with Graphviz...")
		spinner.Start()
		out, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.StopWithSuccess("Rendered SVG")
	}

	if err := ch.Set(ctx, key, out, cache.TTLPreview); err != nil {
		c.Logger.Warn("cache write failed", "error", err)
	} else if _, off := cache.IsDisabled(ch); !off {
		observability.Cache().OnCacheSet(ctx, cache.KindPreview, len(out))
	}
	return writePreview(cmd.OutOrStdout(), opts.output, out)
}

// previewDOT builds DOT for a document, choosing the architecture renderer
// when it has a "components" member.
func previewDOT(data []byte, opts nodelink.Options) (string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}
	if _, ok := probe["components"]; ok {
		var doc diagram.Architecture
		if err := json.Unmarshal(data, &doc); err != nil {
			return "", wrapDecode(err)
		}
		return nodelink.ArchitectureDOT(doc.Components, doc.Connections, opts)
	}
	if _, ok := probe["nodes"]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, `document has neither "nodes" nor "components"`)
	}
	var doc diagram.Flowchart
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", wrapDecode(err)
	}
	return nodelink.FlowchartDOT(doc.Nodes, opts)
}

func wrapDecode(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
}

func writePreview(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}
