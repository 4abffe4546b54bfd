package provider_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/internal/wasitest"
	"github.com/tetratelabs/gowasi1/provider"
)

func TestRandomGetFillsBuffer(t *testing.T) {
	inst := wasitest.NewInstance("test", 16)
	source := bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	get := provider.NewRandomFrom(source).Imports()["random_get"].Func

	errno := get(context.Background(), inst, []uint64{0, 8})
	require.Equal(t, abi.ErrnoSuccess, errno)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, inst.Mem.Buf[:8])
}

func TestRandomGetShortReadIsIoError(t *testing.T) {
	inst := wasitest.NewInstance("test", 16)
	source := &errReader{err: errors.New("boom")}
	get := provider.NewRandomFrom(source).Imports()["random_get"].Func

	errno := get(context.Background(), inst, []uint64{0, 8})
	require.Equal(t, abi.ErrnoIo, errno)
}

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }
