// Package cli implements the blueprint command-line interface.
//
// Commands capture the local system into a named blueprint, inspect and
// compare stored blueprints, and turn them back into executable form.
// The CLI is built with cobra; logging goes through charmbracelet/log
// at a level chosen by the --verbose flag.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jodiecunningham/blueprint/internal/config"
	"github.com/jodiecunningham/blueprint/pkg/distro"
	"github.com/jodiecunningham/blueprint/pkg/errors"
	"github.com/jodiecunningham/blueprint/pkg/gitstore"
)

// appName is the application name used for directories and display.
const appName = "blueprint"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the config file location, for tests.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blueprint captures server state as versioned snapshots",
		Long:         `Blueprint records a server's installed packages, configuration files, and unpackaged software as a snapshot document in a git-compatible store, and turns stored snapshots back into shell scripts that rebuild the server.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.createCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.diffCommand())
	root.AddCommand(c.destroyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// openStore loads the configuration and opens the object store it
// points at, creating the store on first use.
func (c *CLI) openStore() (*gitstore.Store, config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	s, err := gitstore.Open(cfg.StoreDir)
	if err != nil {
		return nil, config.Config{}, err
	}
	c.Logger.Debug("opened store", "dir", cfg.StoreDir)
	return s, cfg, nil
}

// release resolves the OS release, preferring the configured codename
// override over live detection.
func (c *CLI) release(ctx context.Context, cfg config.Config) distro.Release {
	if cfg.Codename != "" {
		return distro.Release{Codename: cfg.Codename}
	}
	r := distro.Detect(ctx)
	if !r.Known() {
		c.Logger.Debug("OS release not detected; release-conditional steps disabled")
	}
	return r
}

// userError reduces an error to its user-facing message for display.
func userError(err error) string {
	return errors.UserMessage(err)
}
