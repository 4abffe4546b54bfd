package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tetratelabs/gowasi1/fsys"
)

// featureFlags is the shared --with-* / --arg / --env / --preopen flag
// surface for any subcommand that needs to build a provider list, mapped
// onto the Host-facing configuration surface of spec.md §6
// (useStdio/useRandom/useMemoryFS/useAll's recognized options).
type featureFlags struct {
	args     []string
	env      []string
	preopens []string

	withArgs    bool
	withEnviron bool
	withClock   bool
	withProc    bool
	withRandom  bool
	withStdio   bool
	withFS      bool
	withTracing bool
}

func (f *featureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "guest argv entry (repeatable); the first entry is argv[0], conventionally the program name")
	cmd.Flags().StringArrayVar(&f.env, "env", nil, "guest environment entry KEY=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&f.preopens, "preopen", nil, "guest_path=host_hint directory to preopen (repeatable)")

	cmd.Flags().BoolVar(&f.withArgs, "with-args", true, "provide args_get/args_sizes_get")
	cmd.Flags().BoolVar(&f.withEnviron, "with-environ", true, "provide environ_get/environ_sizes_get")
	cmd.Flags().BoolVar(&f.withClock, "with-clock", true, "provide clock_res_get/clock_time_get")
	cmd.Flags().BoolVar(&f.withProc, "with-proc", true, "provide proc_exit/proc_raise")
	cmd.Flags().BoolVar(&f.withRandom, "with-random", true, "provide random_get")
	cmd.Flags().BoolVar(&f.withStdio, "with-stdio", true, "provide plain stdio fd_read/fd_write/fd_close/fd_fdstat_get")
	cmd.Flags().BoolVar(&f.withFS, "with-fs", false, "provide the sandboxed memory file system, superseding plain stdio")
	cmd.Flags().BoolVar(&f.withTracing, "trace", false, "wrap the composed table with the logging provider")
}

func (f *featureFlags) environMap() (map[string]string, error) {
	out := make(map[string]string, len(f.env))
	for _, kv := range f.env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --env entry %q: expected KEY=VALUE", kv)
		}
		out[key] = value
	}
	return out, nil
}

func (f *featureFlags) preopenList() ([]fsys.Preopen, error) {
	out := make([]fsys.Preopen, 0, len(f.preopens))
	for _, p := range f.preopens {
		guest, host, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --preopen entry %q: expected guest_path=host_hint", p)
		}
		out = append(out, fsys.Preopen{GuestPath: guest, HostHint: host})
	}
	return out, nil
}
