package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/internal/wasitest"
	"github.com/tetratelabs/gowasi1/provider"
)

func TestClockResGetKnownClocks(t *testing.T) {
	inst := wasitest.NewInstance("test", 64)
	imports := provider.NewClock().Imports()
	resGet := imports["clock_res_get"].Func

	errno := resGet(context.Background(), inst, []uint64{uint64(abi.ClockRealtime), 0})
	require.Equal(t, abi.ErrnoSuccess, errno)
	res, ok := inst.Mem.ReadUint64Le(context.Background(), 0)
	require.True(t, ok)
	require.Equal(t, uint64(1000), res)

	errno = resGet(context.Background(), inst, []uint64{uint64(abi.ClockMonotonic), 0})
	require.Equal(t, abi.ErrnoSuccess, errno)
	res, ok = inst.Mem.ReadUint64Le(context.Background(), 0)
	require.True(t, ok)
	require.Equal(t, uint64(5000), res)
}

func TestClockResGetUnknownClock(t *testing.T) {
	inst := wasitest.NewInstance("test", 64)
	imports := provider.NewClock().Imports()
	resGet := imports["clock_res_get"].Func

	errno := resGet(context.Background(), inst, []uint64{99, 0})
	require.Equal(t, abi.ErrnoNosys, errno)
}

func TestClockTimeGetMonotonicIsMonotonic(t *testing.T) {
	inst := wasitest.NewInstance("test", 64)
	c := provider.NewClock()
	timeGet := c.Imports()["clock_time_get"].Func

	errno := timeGet(context.Background(), inst, []uint64{uint64(abi.ClockMonotonic), 0, 0})
	require.Equal(t, abi.ErrnoSuccess, errno)
	first, ok := inst.Mem.ReadUint64Le(context.Background(), 0)
	require.True(t, ok)

	errno = timeGet(context.Background(), inst, []uint64{uint64(abi.ClockMonotonic), 0, 0})
	require.Equal(t, abi.ErrnoSuccess, errno)
	second, ok := inst.Mem.ReadUint64Le(context.Background(), 0)
	require.True(t, ok)

	require.GreaterOrEqual(t, second, first)
}
