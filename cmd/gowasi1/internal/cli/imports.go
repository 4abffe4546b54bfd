package cli

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tetratelabs/gowasi1/driver"
	"github.com/tetratelabs/gowasi1/wasi"
)

func newImportsCommand(logger logrus.FieldLogger) *cobra.Command {
	flags := &featureFlags{}
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Print the composed wasi_snapshot_preview1 import table for a feature selection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			providers, err := buildProviders(flags, logger)
			if err != nil {
				return err
			}
			d := driver.New(providers...)
			table := d.WasiImport()

			names := make([]string, 0, len(table))
			for name := range table {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				status := "stub(ENOSYS)"
				if wasi.IsKnownName(name) && table[name].ParamNames != nil {
					status = "provided"
				}
				fmt.Fprintf(out, "%-24s %s\n", name, status)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
