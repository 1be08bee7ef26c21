package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/constellar/pkg/tools"
)

// toolsCommand creates the tools command.
func (c *CLI) toolsCommand() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "tools [name]",
		Short: "List drawing tools and their parameters",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tools.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				tool, err := tools.Lookup(args[0])
				if err != nil {
					return err
				}
				printTool(cmd, tool)
				return nil
			}
			if !interactive {
				fmt.Fprintln(out, toolTable(tools.List()))
				return nil
			}

			final, err := tea.NewProgram(NewToolListModel(tools.List()), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("tool picker: %w", err)
			}
			if m, ok := final.(ToolListModel); ok && m.Selected != nil {
				printTool(cmd, *m.Selected)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse tools interactively")
	return cmd
}

func printTool(cmd *cobra.Command, tool tools.Tool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render(tool.Name))
	fmt.Fprintln(out, tool.Description)
	fmt.Fprintln(out, paramTable(tool))
	printNextStep("Try it", fmt.Sprintf("echo '%s' | constellar call %s -", exampleArgs(tool), tool.Name))
}
