package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/scenario"
)

// initCommand creates the init command, which writes an example scenario.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "grid.toml"
			if len(args) == 1 {
				path = args[0]
			}
			return writeExample(path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		printWarning("%s already exists (use --force to overwrite)", path)
		return fmt.Errorf("%s already exists", path)
	}

	var buf bytes.Buffer
	if err := scenario.Example().Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Scenario written")
	printFile(path)
	printNewline()
	printNextStep("Run it", appName+" layout "+path)
	printNextStep("Explore it", appName+" view "+path)
	return nil
}
