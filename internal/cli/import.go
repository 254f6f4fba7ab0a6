package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
)

// importCommand stores a hand-written document as a blueprint.
func (c *CLI) importCommand() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "import <name> <file>",
		Short: "Store a blueprint document from a file",
		Long:  `Import validates a blueprint document and stores it under the given name. The file may contain comments and trailing commas; it is normalized to the canonical form before storage.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			b, err := blueprint.Decode(jsonc.ToJSON(data))
			if err != nil {
				return err
			}
			b.Name = name

			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			commit, err := b.Save(s, message)
			if err != nil {
				return err
			}

			printSuccess("Imported blueprint %s", StyleHighlight.Render(name))
			printDetail("commit %s", commit.Short())
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "imported document", "commit message for the snapshot")

	return cmd
}
