package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the gowasi1 CLI version, set at release time.
const Version = "0.1.0-dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gowasi1 version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return nil
		},
	}
}
