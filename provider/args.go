// Package provider implements the small leaf feature providers: args,
// environ, clock, proc, random, and the stdio proxies. Each implements
// one or two WASI imports, grounded on wazero's
// imports/wasi_snapshot_preview1/{args,clock,environ,random}.go.
package provider

import (
	"context"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// Args provides args_get and args_sizes_get from a fixed argument list.
// Index 0 is the conventional program name (spec.md §3).
type Args struct {
	args []string
}

// NewArgs returns an Args provider over args, copied defensively.
func NewArgs(args []string) *Args {
	cp := make([]string, len(args))
	copy(cp, args)
	return &Args{args: cp}
}

func (a *Args) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"args_get": {
			Name:       "args_get",
			ParamNames: []string{"argv", "argv_buf"},
			Func:       a.argsGet,
		},
		"args_sizes_get": {
			Name:       "args_sizes_get",
			ParamNames: []string{"result.argc", "result.argv_buf_size"},
			Func:       a.argsSizesGet,
		},
	}
}

// argsGet writes one u32 offset per argument at argv (stride 4), each
// pointing at that argument's NUL-terminated bytes packed back-to-back
// starting at argvBuf.
//
// See spec.md §4.2.
func (a *Args) argsGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	argv, argvBuf := uint32(params[0]), uint32(params[1])
	if !abi.WriteNullTerminatedValues(ctx, mod.Memory(), a.args, argv, argvBuf) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

// argsSizesGet writes the argument count and the total NUL-terminated
// byte size of the argument blob argsGet would write.
func (a *Args) argsSizesGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	resultArgc, resultArgvBufSize := uint32(params[0]), uint32(params[1])
	mem := mod.Memory()
	if !mem.WriteUint32Le(ctx, resultArgc, uint32(len(a.args))) {
		return abi.ErrnoFault
	}
	if !mem.WriteUint32Le(ctx, resultArgvBufSize, argsBufSize(a.args)) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func argsBufSize(args []string) uint32 {
	var n uint32
	for _, a := range args {
		n += uint32(len(a)) + 1 // + NUL
	}
	return n
}
