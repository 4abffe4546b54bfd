package abi

import "fmt"

// ExitError is the typed process-exit sentinel raised by proc_exit and
// caught by the driver. It is not an error in the guest-visible errno
// sense (spec.md §7 rule 2): it is a control-flow signal that unwinds out
// of _start and is converted to an integer exit code.
//
// Grounded on wazero's sys.ExitError (tetratelabs/wazero/sys), kept
// to the same two fields and Error() message shape.
type ExitError struct {
	moduleName string
	exitCode   uint32
}

// NewExitError constructs an ExitError for the named module.
func NewExitError(moduleName string, exitCode uint32) *ExitError {
	return &ExitError{moduleName: moduleName, exitCode: exitCode}
}

// ModuleName is the guest instance that raised the exit.
func (e *ExitError) ModuleName() string { return e.moduleName }

// ExitCode returns zero on success, and an arbitrary value otherwise.
func (e *ExitError) ExitCode() uint32 { return e.exitCode }

func (e *ExitError) Error() string {
	return fmt.Sprintf("module %q exited with code %d", e.moduleName, e.exitCode)
}
