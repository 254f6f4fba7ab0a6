package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
)

// listCommand prints the stored blueprint names.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored blueprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			names, err := blueprint.List(s)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No blueprints stored yet")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// packageCount totals recorded packages across all managers.
func packageCount(b *blueprint.Blueprint) int {
	n := 0
	for _, table := range b.Packages {
		n += len(table)
	}
	return n
}
