package abi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/internal/wasitest"
)

var testCtx = context.Background()

func TestWriteNullTerminatedValues(t *testing.T) {
	mem := wasitest.NewMemory(16)
	// []byte{?, 'a', 0, 'b', 'c', 0, ?, 1, 0, 0, 0, 3, 0, 0, 0, ?}:
	// argv at offset 7, argvBuf at offset 1.
	mem = wasitest.NewMemory(16)
	ok := abi.WriteNullTerminatedValues(testCtx, mem, []string{"a", "bc"}, 7, 1)
	require.True(t, ok)
	require.Equal(t, []byte{'a', 0, 'b', 'c', 0}, mem.Buf[1:6])
	require.Equal(t, []byte{1, 0, 0, 0}, mem.Buf[7:11])
}

func TestDecodeIOVecs(t *testing.T) {
	mem := wasitest.NewMemory(16)
	// iovs[0] = {offset:4, len:2}, iovs[1] = {offset:8, len:3}
	require.True(t, mem.WriteUint32Le(testCtx, 0, 4))
	require.True(t, mem.WriteUint32Le(testCtx, 4, 2))
	require.True(t, mem.WriteUint32Le(testCtx, 8, 8))
	require.True(t, mem.WriteUint32Le(testCtx, 12, 3))

	iovs, ok := abi.DecodeIOVecs(testCtx, mem, 0, 2)
	require.True(t, ok)
	require.Equal(t, []abi.IOVec{{Offset: 4, Length: 2}, {Offset: 8, Length: 3}}, iovs)
}

func TestDecodeIOVecsOutOfRange(t *testing.T) {
	mem := wasitest.NewMemory(4)
	_, ok := abi.DecodeIOVecs(testCtx, mem, 0, 2)
	require.False(t, ok)
}

func TestWriteFilestat(t *testing.T) {
	mem := wasitest.NewMemory(64)
	require.True(t, abi.WriteFilestat(testCtx, mem, 0, abi.FiletypeRegularFile))
	require.Equal(t, abi.FiletypeRegularFile, mem.Buf[16])
	require.True(t, abi.WriteFilestatSize(testCtx, mem, 0, 5))
	size, ok := mem.ReadUint64Le(testCtx, 32)
	require.True(t, ok)
	require.Equal(t, uint64(5), size)
}

func TestWriteFdstat(t *testing.T) {
	mem := wasitest.NewMemory(24)
	require.True(t, abi.WriteFdstat(testCtx, mem, 0, abi.FiletypeDirectory, 0))
	require.Equal(t, abi.FiletypeDirectory, mem.Buf[0])
	flags, ok := mem.ReadUint32Le(testCtx, 2)
	require.True(t, ok)
	require.Equal(t, uint32(0), flags&0xffff)
}

func TestWritePrestatDir(t *testing.T) {
	mem := wasitest.NewMemory(8)
	require.True(t, abi.WritePrestatDir(testCtx, mem, 0, 4))
	tag, ok := mem.ReadUint32Le(testCtx, 0)
	require.True(t, ok)
	require.Equal(t, uint32(0), tag)
	pathLen, ok := mem.ReadUint32Le(testCtx, 4)
	require.True(t, ok)
	require.Equal(t, uint32(4), pathLen)
}

func TestReadWriteString(t *testing.T) {
	mem := wasitest.NewMemory(16)
	n, ok := abi.WriteString(testCtx, mem, "hello", 2)
	require.True(t, ok)
	require.Equal(t, uint32(5), n)

	s, ok := abi.ReadString(testCtx, mem, 2, 5)
	require.True(t, ok)
	require.Equal(t, "hello", s)
}
