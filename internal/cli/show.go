package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/errors"
	"github.com/jodiecunningham/blueprint/pkg/gitstore"
)

// showCommand prints a stored blueprint document. With no name it
// offers an interactive picker over the stored blueprints.
func (c *CLI) showCommand() *cobra.Command {
	var (
		format string
		commit string
	)

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a stored blueprint document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}

			name, err := c.resolveName(s, args)
			if err != nil || name == "" {
				return err
			}

			var b *blueprint.Blueprint
			if commit != "" {
				hash, err := gitstore.ParseHash(commit)
				if err != nil {
					return err
				}
				b, err = blueprint.LoadCommit(s, name, hash)
				if err != nil {
					return err
				}
			} else if b, err = blueprint.Load(s, name); err != nil {
				return err
			}

			out, err := formatDocument(b, format)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json or yaml)")
	cmd.Flags().StringVar(&commit, "commit", "", "show the snapshot at a specific commit instead of the latest")

	return cmd
}

// resolveName returns the blueprint name from args, falling back to the
// interactive picker. An empty return with nil error means the user
// quit the picker.
func (c *CLI) resolveName(s *gitstore.Store, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	names, err := blueprint.List(s)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		printInfo("No blueprints stored yet")
		return "", nil
	}
	return pickBlueprint(names)
}

// formatDocument renders the canonical document in the requested
// format. YAML output is derived from the canonical JSON so both
// formats present identical content.
func formatDocument(b *blueprint.Blueprint, format string) ([]byte, error) {
	data, err := blueprint.Encode(b)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return append(data, '\n'), nil
	case "yaml":
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "reparsing canonical document")
		}
		return yaml.Marshal(doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json or yaml)", format)
	}
}
