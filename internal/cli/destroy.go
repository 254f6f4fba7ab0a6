package cli

import (
	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
)

// destroyCommand deletes a stored blueprint.
func (c *CLI) destroyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <name>",
		Short: "Delete a stored blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			if err := blueprint.Destroy(s, args[0]); err != nil {
				return err
			}
			printSuccess("Destroyed blueprint %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}
