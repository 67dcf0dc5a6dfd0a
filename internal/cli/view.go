package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/scenario"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <scenario.toml>",
		Short: "Explore a scenario interactively",
		Long: `Explore a scenario interactively.

The viewer shows the visible columns to scale and their widths. Scroll the
viewport, move between columns, resize them, hide and show them, and replay
the scenario's steps one at a time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return fmt.Errorf("load scenario %s: %w", args[0], err)
			}
			// The engine logs nowhere while the program owns the terminal.
			m, err := NewViewModel(sc)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
