package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/errors"
	"github.com/matzehuels/constellar/pkg/tools"
)

// callCommand creates the call command, which runs any registered tool.
func (c *CLI) callCommand() *cobra.Command {
	var opts diagramOpts
	cmd := &cobra.Command{
		Use:   "call <tool> [args.json|-]",
		Short: "Run a drawing tool with JSON arguments",
		Long: `Run a registered drawing tool. Arguments are a JSON object read from a file,
or from stdin when the file is "-". Without a file the tool runs with {}.

Run "constellar tools" to list tools and their parameters.`,
		Example: `  constellar call create_rectangle args.json
  echo '{"x": 0, "y": 0, "label": "API"}' | constellar call create_rectangle -
  constellar call create_flowchart steps.json --seed 7 -o steps.excalidraw`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return tools.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if _, err := tools.Lookup(name); err != nil {
				return err
			}

			raw := []byte("{}")
			if len(args) == 2 {
				var err error
				if raw, err = readArgs(cmd.InOrStdin(), args[1]); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("seed") {
				var err error
				if raw, err = setSeed(raw, opts.seed); err != nil {
					return err
				}
			}

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Run(ctx, name, raw)
			if err != nil {
				return err
			}
			printStats(0, res.Count, res.Cached)
			return opts.out.write(cmd.OutOrStdout(), res.Elements)
		},
	}
	opts.register(cmd)
	return cmd
}

// readArgs reads a JSON argument object from path, or from stdin for "-".
func readArgs(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	return data, nil
}

// setSeed overrides the "seed" member of a JSON argument object.
func setSeed(raw []byte, seed uint64) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "arguments must be a JSON object")
	}
	if m == nil {
		m = make(map[string]json.RawMessage)
	}
	m["seed"] = json.RawMessage(fmt.Sprint(seed))
	return json.Marshal(m)
}
