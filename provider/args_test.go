package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/internal/wasitest"
	"github.com/tetratelabs/gowasi1/provider"
	"github.com/tetratelabs/gowasi1/wasi"
)

func TestArgsSizesGetAndGet(t *testing.T) {
	inst := wasitest.NewInstance("test", 256)
	imports := provider.NewArgs([]string{"prog", "-x", ""}).Imports()

	sizesGet := imports["args_sizes_get"].Func
	errno := sizesGet(context.Background(), inst, []uint64{0, 4})
	require.Equal(t, abi.ErrnoSuccess, errno)

	argc, ok := inst.Mem.ReadUint32Le(context.Background(), 0)
	require.True(t, ok)
	require.Equal(t, uint32(3), argc)

	bufSize, ok := inst.Mem.ReadUint32Le(context.Background(), 4)
	require.True(t, ok)
	require.Equal(t, uint32(len("prog\x00-x\x00\x00")), bufSize)

	get := imports["args_get"].Func
	offsetsPtr, bytesPtr := uint32(16), uint32(32)
	errno = get(context.Background(), inst, []uint64{uint64(offsetsPtr), uint64(bytesPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	off0, ok := inst.Mem.ReadUint32Le(context.Background(), offsetsPtr)
	require.True(t, ok)
	require.Equal(t, bytesPtr, off0)

	s, ok := abi.ReadString(context.Background(), inst.Mem, bytesPtr, 5)
	require.True(t, ok)
	require.Equal(t, "prog\x00", s)
}

func TestArgsGetKnownName(t *testing.T) {
	imports := provider.NewArgs(nil).Imports()
	require.Contains(t, imports, "args_get")
	require.True(t, wasi.IsKnownName("args_get"))
	require.True(t, wasi.IsKnownName("args_sizes_get"))
}
