package provider

import (
	"context"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// Proc provides proc_exit and proc_raise (spec.md §4.4).
type Proc struct{}

// NewProc returns a Proc provider.
func NewProc() *Proc { return &Proc{} }

func (p *Proc) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"proc_exit": {
			Name:       "proc_exit",
			ParamNames: []string{"rval"},
			Func:       procExit,
		},
		"proc_raise": {
			Name:       "proc_raise",
			ParamNames: []string{"sig"},
			Func:       procRaise,
		},
	}
}

// procExit raises the process-exit sentinel with the given code and never
// returns normally. Grounded on wazero's wasi_snapshot_preview1/proc.go,
// which panics with sys.ExitError after notifying the module of its exit
// code so any other code observing the module sees the same outcome.
func procExit(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	code := uint32(params[0])
	_ = mod.CloseWithExitCode(ctx, code)
	panic(abi.NewExitError(mod.Name(), code))
}

// procRaise is a no-op: this core has no signal delivery model beyond
// proc_exit (spec.md §1 non-goals).
func procRaise(context.Context, abi.Module, []uint64) abi.Errno {
	return abi.ErrnoSuccess
}
