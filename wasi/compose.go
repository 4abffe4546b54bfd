package wasi

import (
	"context"

	"github.com/tetratelabs/gowasi1/abi"
)

// Build merges each provider's imports into a single table in order:
// later providers overwrite earlier ones on a name collision (spec.md
// §4.8 point 1 — this is how a useAll(...) configuration lets the memory
// file system's fd_read/fd_write override plain stdio's). Every name in
// Names not supplied by any provider is filled with a stub returning
// ErrnoNosys, so a guest linked against libc can still boot even with an
// empty feature list.
func Build(providers []Provider) map[string]HostFunc {
	table := make(map[string]HostFunc, len(Names))
	for _, p := range providers {
		for name, fn := range p.Imports() {
			table[name] = fn
		}
	}
	for _, name := range Names {
		if _, ok := table[name]; !ok {
			table[name] = stub(name)
		}
	}
	return table
}

func stub(name string) HostFunc {
	return HostFunc{
		Name: name,
		Func: func(context.Context, abi.Module, []uint64) abi.Errno {
			return abi.ErrnoNosys
		},
	}
}
