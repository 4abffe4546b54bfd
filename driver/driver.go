// Package driver owns the guest instance lifecycle: building the import
// table from a feature-provider list, invoking _start or _initialize,
// and translating the process-exit sentinel into an integer exit code
// (spec.md §4.8). This is the "external collaborator" boundary the core
// exposes to a host embedder.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// ErrAlreadyRun is returned by Start or Initialize when either has
// already been invoked once on this Driver (spec.md §4.8: "start() and
// initialize() each callable at most once per driver, cross-exclusive").
var ErrAlreadyRun = errors.New("driver: start or initialize already invoked")

// Driver composes a fixed import table from a provider list and runs a
// single guest instance to completion.
type Driver struct {
	imports map[string]wasi.HostFunc
	ran     bool
}

// New builds a Driver from an ordered list of feature providers. Later
// providers win name collisions (spec.md §4.8); every name in wasi.Names
// not supplied by any provider is filled with an ENOSYS stub.
func New(providers ...wasi.Provider) *Driver {
	return &Driver{imports: wasi.Build(providers)}
}

// WasiImport returns the composed import map, keyed the same way a host
// embedder's wasm runtime expects a module's imports to be keyed under
// wasi.ModuleName.
func (d *Driver) WasiImport() map[string]wasi.HostFunc {
	return d.imports
}

// Start invokes the guest's _start export and returns the process's exit
// code. A normal return from _start yields ErrnoSuccess (0). A proc_exit
// call unwinds through the typed abi.ExitError sentinel, which Start
// catches and converts; it does not propagate as an error. Any other
// panic propagates to the caller.
func (d *Driver) Start(ctx context.Context, instance abi.Instance) (code uint32, err error) {
	if d.ran {
		return 0, ErrAlreadyRun
	}
	d.ran = true
	if err := requireExports(instance, "_start"); err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			exitErr, ok := r.(*abi.ExitError)
			if !ok {
				panic(r)
			}
			code = exitErr.ExitCode()
			err = nil
		}
	}()

	if callErr := instance.ExportedFunction("_start").Call(ctx); callErr != nil {
		return 0, fmt.Errorf("driver: _start failed: %w", callErr)
	}
	return abi.ErrnoSuccess, nil
}

// Initialize invokes the guest's _initialize export, for the reactor
// model. Unlike Start, Initialize does not recover a process-exit
// sentinel: an abi.ExitError panic raised here propagates to the caller
// as a panic and is not converted to an exit code.
func (d *Driver) Initialize(ctx context.Context, instance abi.Instance) error {
	if d.ran {
		return ErrAlreadyRun
	}
	d.ran = true
	if err := requireExports(instance, "_initialize"); err != nil {
		return err
	}
	if err := instance.ExportedFunction("_initialize").Call(ctx); err != nil {
		return fmt.Errorf("driver: _initialize failed: %w", err)
	}
	return nil
}

// requireExports checks the guest exports entryPoint and memory, per
// spec.md §4.8's "both require the guest to export a memory; absence is
// a fatal configuration error surfaced to the host."
func requireExports(instance abi.Instance, entryPoint string) error {
	if instance.ExportedFunction(entryPoint) == nil {
		return fmt.Errorf("driver: guest %q does not export %q", instance.Name(), entryPoint)
	}
	if instance.Memory() == nil {
		return fmt.Errorf("driver: guest %q does not export memory", instance.Name())
	}
	return nil
}
