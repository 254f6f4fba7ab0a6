package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/gensh"
)

// renderCommand turns a stored blueprint into executable form.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a blueprint into executable form",
	}
	cmd.AddCommand(c.renderShCommand())
	return cmd
}

// renderShCommand generates a POSIX shell script that reproduces the
// blueprint on a fresh system.
func (c *CLI) renderShCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "sh <name>",
		Short: "Generate a shell script that rebuilds the blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			b, err := blueprint.Load(s, name)
			if err != nil {
				return err
			}

			release := c.release(cmd.Context(), cfg)
			script, err := gensh.Generate(b, release)
			if err != nil {
				return err
			}

			if outDir == "" {
				fmt.Print(script.String())
				return nil
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			scriptPath := filepath.Join(outDir, name+".sh")
			if err := os.WriteFile(scriptPath, []byte(script.String()), 0o755); err != nil {
				return err
			}
			// Source archives sit next to the script so its tar
			// invocations resolve.
			for filename, data := range script.Sources() {
				if err := os.WriteFile(filepath.Join(outDir, filename), data, 0o644); err != nil {
					return err
				}
			}

			printSuccess("Rendered blueprint %s", StyleHighlight.Render(name))
			printFile(scriptPath)
			for filename := range script.Sources() {
				printFile(filepath.Join(outDir, filename))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write the script and its source archives into this directory instead of stdout")

	return cmd
}
