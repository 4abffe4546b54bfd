// Package cli implements the gowasi1 command-line surface with
// spf13/cobra, grounded on the corpus's own CLI conventions (a root
// command with persistent flags plus leaf subcommands, e.g.
// pgavlin-warp and grafana-k6's cmd packages).
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Execute parses args and runs the matching gowasi1 subcommand.
func Execute(args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

// NewRootCommand builds the root cobra.Command, exported so tests can
// redirect its output streams before calling Execute on the command
// itself.
func NewRootCommand() *cobra.Command {
	logger := logrus.New()

	root := &cobra.Command{
		Use:           "gowasi1",
		Short:         "Inspect and configure a wasi_snapshot_preview1 import table",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stderr)
		return nil
	}

	root.AddCommand(newImportsCommand(logger))
	root.AddCommand(newVersionCommand())
	return root
}
