package cli

import (
	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/pkg/capture"
)

// createCommand captures the local system into a named blueprint.
func (c *CLI) createCommand() *cobra.Command {
	var (
		message    string
		statusPath string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Capture the local system as a new blueprint snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ctx := cmd.Context()

			s, _, err := c.openStore()
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, "capturing system state")
			spinner.Start()
			b, err := capture.Run(ctx, name, capture.DpkgStatus(statusPath))
			if err != nil {
				spinner.StopWithError(userError(err))
				return err
			}
			spinner.Stop()

			commit, err := b.Save(s, message)
			if err != nil {
				printError("%s", userError(err))
				return err
			}

			c.Logger.Debug("snapshot stored", "name", name, "commit", commit)
			printSuccess("Created blueprint %s", StyleHighlight.Render(name))
			printDetail("commit %s", commit.Short())
			printDetail("%d packages under %d managers", packageCount(b), len(b.Packages))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "system snapshot", "commit message for the snapshot")
	cmd.Flags().StringVar(&statusPath, "dpkg-status", capture.DefaultDpkgStatusPath, "dpkg status database to capture from")

	return cmd
}
