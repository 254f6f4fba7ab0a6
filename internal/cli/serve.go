package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/internal/api"
)

// serveCommand exposes the store over a read-only local HTTP interface.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored blueprints over read-only HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := c.openStore()
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           api.New(s).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- server.ListenAndServe() }()
			c.Logger.Info("serving blueprints", "addr", addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return cmd.Context().Err()
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8141", "listen address")

	return cmd
}
