package provider

import (
	"context"
	"crypto/rand"
	"io"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// Random provides random_get, filling guest buffers from an injectable
// source that defaults to crypto/rand.Reader (spec.md §4.5), the same
// default wazero's internal/wasm.SysContext.RandSource uses.
type Random struct {
	source io.Reader
}

// NewRandom returns a Random provider reading from crypto/rand.Reader.
func NewRandom() *Random { return &Random{source: rand.Reader} }

// NewRandomFrom returns a Random provider reading from source, for tests
// or embedders that need determinism.
func NewRandomFrom(source io.Reader) *Random { return &Random{source: source} }

func (r *Random) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"random_get": {
			Name:       "random_get",
			ParamNames: []string{"buf", "buf_len"},
			Func:       r.randomGet,
		},
	}
}

func (r *Random) randomGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	buf, bufLen := uint32(params[0]), uint32(params[1])
	b, ok := mod.Memory().Read(ctx, buf, bufLen)
	if !ok {
		return abi.ErrnoFault
	}
	if _, err := io.ReadFull(r.source, b); err != nil {
		return abi.ErrnoIo
	}
	return abi.ErrnoSuccess
}
