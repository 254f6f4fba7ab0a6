package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
)

// diffCommand subtracts one blueprint from another and prints or
// stores what remains.
func (c *CLI) diffCommand() *cobra.Command {
	var (
		saveAs string
		format string
	)

	cmd := &cobra.Command{
		Use:   "diff <name> <subtrahend>",
		Short: "Subtract one blueprint from another",
		Long:  `Diff computes the packages, files, and sources present in the first blueprint beyond what the second provides. The result is itself a blueprint document: print it, or store it under a new name with --save.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}

			b, err := blueprint.Load(s, args[0])
			if err != nil {
				return err
			}
			other, err := blueprint.Load(s, args[1])
			if err != nil {
				return err
			}

			minimal := b.Subtract(other)
			if saveAs != "" {
				minimal.Name = saveAs
				commit, err := minimal.Save(s, fmt.Sprintf("diff of %s against %s", args[0], args[1]))
				if err != nil {
					return err
				}
				printSuccess("Created blueprint %s", StyleHighlight.Render(saveAs))
				printDetail("commit %s", commit.Short())
				return nil
			}

			out, err := formatDocument(minimal, format)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&saveAs, "save", "", "store the result as a new blueprint under this name")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json or yaml)")

	return cmd
}
