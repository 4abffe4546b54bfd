package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/internal/wasitest"
	"github.com/tetratelabs/gowasi1/provider"
)

func TestEnvironSortsKeysDeterministically(t *testing.T) {
	inst := wasitest.NewInstance("test", 256)
	imports := provider.NewEnviron(map[string]string{"B": "2", "A": "1"}).Imports()

	sizesGet := imports["environ_sizes_get"].Func
	errno := sizesGet(context.Background(), inst, []uint64{0, 4})
	require.Equal(t, abi.ErrnoSuccess, errno)

	count, ok := inst.Mem.ReadUint32Le(context.Background(), 0)
	require.True(t, ok)
	require.Equal(t, uint32(2), count)

	get := imports["environ_get"].Func
	offsetsPtr, bytesPtr := uint32(16), uint32(32)
	errno = get(context.Background(), inst, []uint64{uint64(offsetsPtr), uint64(bytesPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	first, ok := abi.ReadString(context.Background(), inst.Mem, bytesPtr, 4)
	require.True(t, ok)
	require.Equal(t, "A=1\x00", first)
}
