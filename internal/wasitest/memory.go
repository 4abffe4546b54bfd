// Package wasitest provides fakes shared by this module's test suites: a
// byte-slice-backed abi.Memory and a minimal abi.Instance, standing in for
// a real wasm engine the way wazero's own tests stand up a real
// wazero.Runtime. Grounded on wazero's testing/require pattern of
// keeping shared test scaffolding in its own internal package
// (internal/testing/require in tetratelabs/wazero).
package wasitest

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/tetratelabs/gowasi1/abi"
)

// Memory is a growable byte-slice-backed abi.Memory.
type Memory struct {
	Buf []byte
}

// NewMemory returns a Memory with size bytes, all zeroed.
func NewMemory(size int) *Memory { return &Memory{Buf: make([]byte, size)} }

func (m *Memory) Size(context.Context) uint32 { return uint32(len(m.Buf)) }

func (m *Memory) inBounds(offset, byteCount uint32) bool {
	return uint64(offset)+uint64(byteCount) <= uint64(len(m.Buf))
}

func (m *Memory) Read(_ context.Context, offset, byteCount uint32) ([]byte, bool) {
	if !m.inBounds(offset, byteCount) {
		return nil, false
	}
	return m.Buf[offset : offset+byteCount : offset+byteCount], true
}

func (m *Memory) ReadByte(_ context.Context, offset uint32) (byte, bool) {
	if !m.inBounds(offset, 1) {
		return 0, false
	}
	return m.Buf[offset], true
}

func (m *Memory) ReadUint32Le(_ context.Context, offset uint32) (uint32, bool) {
	if !m.inBounds(offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.Buf[offset:]), true
}

func (m *Memory) ReadUint64Le(_ context.Context, offset uint32) (uint64, bool) {
	if !m.inBounds(offset, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.Buf[offset:]), true
}

func (m *Memory) Write(_ context.Context, offset uint32, v []byte) bool {
	if !m.inBounds(offset, uint32(len(v))) {
		return false
	}
	copy(m.Buf[offset:], v)
	return true
}

func (m *Memory) WriteByte(_ context.Context, offset uint32, v byte) bool {
	if !m.inBounds(offset, 1) {
		return false
	}
	m.Buf[offset] = v
	return true
}

func (m *Memory) WriteUint16Le(_ context.Context, offset uint32, v uint16) bool {
	if !m.inBounds(offset, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(m.Buf[offset:], v)
	return true
}

func (m *Memory) WriteUint32Le(_ context.Context, offset uint32, v uint32) bool {
	if !m.inBounds(offset, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.Buf[offset:], v)
	return true
}

func (m *Memory) WriteUint64Le(_ context.Context, offset uint32, v uint64) bool {
	if !m.inBounds(offset, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.Buf[offset:], v)
	return true
}

// Instance is a minimal abi.Instance backed by a fixed Memory and a set of
// named no-op/erroring exported functions, enough to exercise driver.Start
// and driver.Initialize without a real wasm engine.
type Instance struct {
	InstanceName string
	Mem          *Memory
	Funcs        map[string]abi.Function
	ExitCode     uint32
	Closed       bool
}

// NewInstance returns an Instance with the given memory size and no
// exported functions; callers add them via Funcs.
func NewInstance(name string, memSize int) *Instance {
	return &Instance{InstanceName: name, Mem: NewMemory(memSize), Funcs: map[string]abi.Function{}}
}

func (i *Instance) Name() string      { return i.InstanceName }
func (i *Instance) Memory() abi.Memory { return i.Mem }

func (i *Instance) CloseWithExitCode(_ context.Context, exitCode uint32) error {
	i.Closed = true
	i.ExitCode = exitCode
	return nil
}

func (i *Instance) ExportedFunction(name string) abi.Function {
	fn, ok := i.Funcs[name]
	if !ok {
		return nil
	}
	return fn
}

// Func adapts a plain Go func into an abi.Function.
type Func func(ctx context.Context) error

func (f Func) Call(ctx context.Context) error { return f(ctx) }

// ExitFunc returns an abi.Function that raises abi.ExitError with the given
// exit code, mirroring what proc_exit does inside a real guest.
func ExitFunc(instanceName string, code uint32) abi.Function {
	return Func(func(context.Context) error {
		panic(abi.NewExitError(instanceName, code))
	})
}

// ErrFunc returns an abi.Function that always fails.
func ErrFunc(err error) abi.Function {
	if err == nil {
		err = errors.New("wasitest: function failed")
	}
	return Func(func(context.Context) error { return err })
}
