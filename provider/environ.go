package provider

import (
	"context"
	"sort"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// Environ provides environ_get and environ_sizes_get from a fixed
// key/value map, formatted as "KEY=VALUE\0" entries (spec.md §4.2).
// Iteration order is stable across paired _get/_sizes_get calls within
// one Environ instance but is not otherwise specified; this
// implementation sorts by key for determinism, which an os.Environ-backed
// equivalent does not guarantee but tests benefit from.
type Environ struct {
	entries []string
}

// NewEnviron returns an Environ provider over env.
func NewEnviron(env map[string]string) *Environ {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]string, len(keys))
	for i, k := range keys {
		entries[i] = k + "=" + env[k]
	}
	return &Environ{entries: entries}
}

func (e *Environ) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"environ_get": {
			Name:       "environ_get",
			ParamNames: []string{"environ", "environ_buf"},
			Func:       e.environGet,
		},
		"environ_sizes_get": {
			Name:       "environ_sizes_get",
			ParamNames: []string{"result.environc", "result.environ_buf_size"},
			Func:       e.environSizesGet,
		},
	}
}

func (e *Environ) environGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	environ, environBuf := uint32(params[0]), uint32(params[1])
	if !abi.WriteNullTerminatedValues(ctx, mod.Memory(), e.entries, environ, environBuf) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (e *Environ) environSizesGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	resultEnvironc, resultEnvironBufSize := uint32(params[0]), uint32(params[1])
	mem := mod.Memory()
	if !mem.WriteUint32Le(ctx, resultEnvironc, uint32(len(e.entries))) {
		return abi.ErrnoFault
	}
	if !mem.WriteUint32Le(ctx, resultEnvironBufSize, argsBufSize(e.entries)) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}
