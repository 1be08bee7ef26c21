package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/excalidraw"
)

// outputOpts controls where and how generated elements are written.
type outputOpts struct {
	path  string
	scene bool
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&o.scene, "scene", false, "wrap elements in a full .excalidraw scene")
}

// wantsScene reports whether a scene should be written. Files ending in
// .excalidraw always get one.
func (o *outputOpts) wantsScene() bool {
	return o.scene || strings.EqualFold(filepath.Ext(o.path), ".excalidraw")
}

// write emits elements as {"elements": [...]} or as a scene, to stdout or
// the output file.
func (o *outputOpts) write(stdout io.Writer, elements json.RawMessage) error {
	var v any = struct {
		Elements json.RawMessage `json:"elements"`
	}{elements}
	if o.wantsScene() {
		v = excalidraw.NewScene(elements)
	}

	if o.path == "" {
		return encodeIndented(stdout, v)
	}
	f, err := os.Create(o.path)
	if err != nil {
		return err
	}
	if err := encodeIndented(f, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(o.path)
	return nil
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withSeed returns args with "seed" set when the flag was given.
func withSeed(cmd *cobra.Command, args map[string]any, seed uint64) map[string]any {
	if cmd.Flags().Changed("seed") {
		args["seed"] = seed
	}
	return args
}
