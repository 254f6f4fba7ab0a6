package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
	"github.com/jodiecunningham/blueprint/pkg/graph"
)

// graphCommand draws a blueprint's manager hierarchy.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		svgPath  string
		packages bool
	)

	cmd := &cobra.Command{
		Use:   "graph <name>",
		Short: "Draw the blueprint's package-manager hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}
			b, err := blueprint.Load(s, args[0])
			if err != nil {
				return err
			}

			dot := graph.ToDOT(b, graph.Options{Packages: packages})
			if svgPath == "" {
				fmt.Print(dot)
				return nil
			}

			svg, err := graph.RenderSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered hierarchy of %s", StyleHighlight.Render(args[0]))
			printFile(svgPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "render to an SVG file instead of printing DOT")
	cmd.Flags().BoolVar(&packages, "packages", false, "include leaf packages, not just managers")

	return cmd
}
