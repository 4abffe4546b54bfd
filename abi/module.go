package abi

import "context"

// Module is the guest instance surface a host import function needs:
// its linear memory and the ability to signal process-exit. This is
// deliberately a small slice of wazero's api.Module — just enough for
// the operations spec.md §4 describes — so that any embedder (wazero,
// wasmtime-go, or a hand-rolled interpreter) can satisfy it with a thin
// adapter.
type Module interface {
	// Name identifies the guest instance, used in ExitError messages.
	Name() string

	// Memory returns the current view over the guest's linear memory.
	// Callers MUST call this fresh on every host invocation.
	Memory() Memory

	// CloseWithExitCode notifies the embedder that the guest is exiting
	// with the given code. proc_exit calls this before raising ExitError.
	CloseWithExitCode(ctx context.Context, exitCode uint32) error
}

// Function is an exported guest function, such as _start or _initialize.
type Function interface {
	// Call invokes the function. It takes no arguments and has no result:
	// WASI's command/reactor entry points are niladic.
	Call(ctx context.Context) error
}

// Instance is the subset of a wasm runtime instance the driver needs to
// invoke _start/_initialize and to look up the guest's exported memory.
type Instance interface {
	Module

	// ExportedFunction returns the guest's exported function by name, or
	// nil if it does not export one by that name.
	ExportedFunction(name string) Function
}
