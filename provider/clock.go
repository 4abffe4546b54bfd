package provider

import (
	"context"
	"time"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// Clock provides clock_res_get and clock_time_get for CLOCK_REALTIME and
// CLOCK_MONOTONIC (spec.md §4.3). The monotonic reading is derived from
// time.Since a fixed start captured at construction: Go's time.Time
// carries a monotonic reading internally, so subtracting two of them
// never observes wall-clock adjustments — this is the "real monotonic
// source" spec.md §9 says a systems-language host typically has, in
// contrast to an ENOSYS-on-one-path fallback.
type Clock struct {
	start time.Time
}

// NewClock returns a Clock provider whose monotonic origin is now.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

func (c *Clock) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"clock_res_get": {
			Name:       "clock_res_get",
			ParamNames: []string{"id", "result.resolution"},
			Func:       c.clockResGet,
		},
		"clock_time_get": {
			Name:       "clock_time_get",
			ParamNames: []string{"id", "precision", "result.timestamp"},
			Func:       c.clockTimeGet,
		},
	}
}

// clockResGet writes the clock's resolution in nanoseconds: 1000 (1µs) for
// CLOCK_REALTIME, 5000 (5µs) for CLOCK_MONOTONIC. Unknown clock ids
// return ErrnoNosys, matching spec.md §4.3.
func (c *Clock) clockResGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	id, out := uint32(params[0]), uint32(params[1])
	var resolution uint64
	switch id {
	case abi.ClockRealtime:
		resolution = 1_000
	case abi.ClockMonotonic:
		resolution = 5_000
	default:
		return abi.ErrnoNosys
	}
	if !mod.Memory().WriteUint64Le(ctx, out, resolution) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

// clockTimeGet writes nanoseconds since the Unix epoch for CLOCK_REALTIME,
// or nanoseconds since an unspecified fixed origin for CLOCK_MONOTONIC.
// precision is ignored, per spec.md §4.3.
func (c *Clock) clockTimeGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	id, out := uint32(params[0]), uint32(params[2])
	var nanos int64
	switch id {
	case abi.ClockRealtime:
		nanos = time.Now().UnixNano()
	case abi.ClockMonotonic:
		nanos = time.Since(c.start).Nanoseconds()
	default:
		return abi.ErrnoNosys
	}
	if !mod.Memory().WriteUint64Le(ctx, out, uint64(nanos)) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}
