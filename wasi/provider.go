package wasi

import (
	"context"

	"github.com/tetratelabs/gowasi1/abi"
)

// Fn is a host implementation of one WASI import. params holds the raw
// wasm-level argument stack (all preview1 parameters besides fd_seek's
// offset are 32-bit, widened to uint64 here for a uniform signature,
// matching an early convention in
// imports/wasi_snapshot_preview1/args.go: func(ctx, mod, params []uint64) Errno).
// Every WASI function returns exactly one result, an Errno; handlers
// write any additional results into guest memory themselves.
type Fn func(ctx context.Context, mod abi.Module, params []uint64) abi.Errno

// HostFunc pairs a Fn with the parameter names spec.md's ABI section
// documents for it, so a tracing wrapper can label arguments instead of
// printing a bare tuple (spec.md §4.8; SPEC_FULL.md §3).
type HostFunc struct {
	Name       string
	ParamNames []string
	Func       Fn
}

// Provider contributes zero or more named import functions. Selecting a
// set of providers and composing them (see Build) is the tree-shaking
// story from spec.md §1: a guest linked only against libc's argv/environ
// surface never pulls in the memory file system.
type Provider interface {
	// Imports returns this provider's contribution to the import table,
	// keyed by name. Every key MUST be a member of Names.
	Imports() map[string]HostFunc
}

// ProviderFunc adapts a plain function into a Provider.
type ProviderFunc func() map[string]HostFunc

func (f ProviderFunc) Imports() map[string]HostFunc { return f() }

// Single builds a Provider contributing exactly one named function.
func Single(name string, paramNames []string, fn Fn) Provider {
	return ProviderFunc(func() map[string]HostFunc {
		return map[string]HostFunc{name: {Name: name, ParamNames: paramNames, Func: fn}}
	})
}
