package fsys_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/fsys"
	"github.com/tetratelabs/gowasi1/internal/wasitest"
)

func putString(t *testing.T, mem *wasitest.Memory, ptr uint32, s string) {
	t.Helper()
	require.True(t, mem.Write(context.Background(), ptr, []byte(s)))
}

func putIOVec(t *testing.T, mem *wasitest.Memory, ptr, bufOffset, length uint32) {
	t.Helper()
	require.True(t, mem.WriteUint32Le(context.Background(), ptr, bufOffset))
	require.True(t, mem.WriteUint32Le(context.Background(), ptr+4, length))
}

// TestPreopenAndFileRoundTrip is spec scenario 5: preopen a directory,
// seed a file inside it, open it relative to the preopen fd, and read
// its full contents back.
func TestPreopenAndFileRoundTrip(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	require.NoError(t, fs.Seed("/sandbox/greet.txt", []byte("hello")))
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 512)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(200)
	putString(t, inst.Mem, pathPtr, "greet.txt")

	openedFdPtr := uint32(300)
	errno := imports["path_open"].Func(ctx, inst, []uint64{
		uint64(preopenFd), 0, uint64(pathPtr), uint64(len("greet.txt")), 0, 0, 0, 0, uint64(openedFdPtr),
	})
	require.Equal(t, abi.ErrnoSuccess, errno)
	fd, ok := inst.Mem.ReadUint32Le(ctx, openedFdPtr)
	require.True(t, ok)

	iovPtr, bufPtr, resultPtr := uint32(0), uint32(64), uint32(400)
	putIOVec(t, inst.Mem, iovPtr, bufPtr, 5)
	errno = imports["fd_read"].Func(ctx, inst, []uint64{uint64(fd), uint64(iovPtr), 1, uint64(resultPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	n, ok := inst.Mem.ReadUint32Le(ctx, resultPtr)
	require.True(t, ok)
	require.Equal(t, uint32(5), n)
	got, ok := inst.Mem.Read(ctx, bufPtr, 5)
	require.True(t, ok)
	require.Equal(t, "hello", string(got))
}

// TestCreateWriteSeekRead is spec scenario 6.
func TestCreateWriteSeekRead(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 512)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(200)
	putString(t, inst.Mem, pathPtr, "out")
	openedFdPtr := uint32(300)
	errno := imports["path_open"].Func(ctx, inst, []uint64{
		uint64(preopenFd), 0, uint64(pathPtr), uint64(len("out")), uint64(abi.OflagsCreat), 0, 0, 0, uint64(openedFdPtr),
	})
	require.Equal(t, abi.ErrnoSuccess, errno)
	fd, ok := inst.Mem.ReadUint32Le(ctx, openedFdPtr)
	require.True(t, ok)

	writeBuf := uint32(64)
	putString(t, inst.Mem, writeBuf, "abcdef")
	iovPtr := uint32(0)
	putIOVec(t, inst.Mem, iovPtr, writeBuf, 6)
	resultPtr := uint32(400)
	errno = imports["fd_write"].Func(ctx, inst, []uint64{uint64(fd), uint64(iovPtr), 1, uint64(resultPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	n, ok := inst.Mem.ReadUint32Le(ctx, resultPtr)
	require.True(t, ok)
	require.Equal(t, uint32(6), n)

	errno = imports["fd_seek"].Func(ctx, inst, []uint64{uint64(fd), 2, uint64(abi.WhenceSet), uint64(resultPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	readBuf := uint32(128)
	putIOVec(t, inst.Mem, iovPtr, readBuf, 3)
	errno = imports["fd_read"].Func(ctx, inst, []uint64{uint64(fd), uint64(iovPtr), 1, uint64(resultPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	n, ok = inst.Mem.ReadUint32Le(ctx, resultPtr)
	require.True(t, ok)
	require.Equal(t, uint32(3), n)
	got, ok := inst.Mem.Read(ctx, readBuf, 3)
	require.True(t, ok)
	require.Equal(t, "cde", string(got))
}

func TestSeekClampsNegativeToZero(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	require.NoError(t, fs.Seed("/sandbox/f", []byte("0123456789")))
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 256)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(100)
	putString(t, inst.Mem, pathPtr, "f")
	openedFdPtr := uint32(120)
	errno := imports["path_open"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(pathPtr), 1, 0, 0, 0, 0, uint64(openedFdPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	fd, ok := inst.Mem.ReadUint32Le(ctx, openedFdPtr)
	require.True(t, ok)

	resultPtr := uint32(140)
	seekOffset := int64(-100)
	errno = imports["fd_seek"].Func(ctx, inst, []uint64{uint64(fd), uint64(seekOffset), uint64(abi.WhenceSet), uint64(resultPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	errno = imports["fd_tell"].Func(ctx, inst, []uint64{uint64(fd), uint64(resultPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	pos, ok := inst.Mem.ReadUint64Le(ctx, resultPtr)
	require.True(t, ok)
	require.Equal(t, uint64(0), pos)
}

func TestFdSeekRejectsStdio(t *testing.T) {
	fs := fsys.New(nil, nil, nil, nil)
	inst := wasitest.NewInstance("guest", 64)
	errno := fs.Imports()["fd_seek"].Func(context.Background(), inst, []uint64{1, 0, uint64(abi.WhenceSet), 0})
	require.Equal(t, abi.ErrnoBadf, errno)
}

func TestPathOpenDeduplicatesSameAbsolutePath(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	require.NoError(t, fs.Seed("/sandbox/f", []byte("x")))
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 256)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(100)
	putString(t, inst.Mem, pathPtr, "f")
	fdPtr1, fdPtr2 := uint32(120), uint32(124)

	errno := imports["path_open"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(pathPtr), 1, 0, 0, 0, 0, uint64(fdPtr1)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	errno = imports["path_open"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(pathPtr), 1, 0, 0, 0, 0, uint64(fdPtr2)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	fd1, _ := inst.Mem.ReadUint32Le(ctx, fdPtr1)
	fd2, _ := inst.Mem.ReadUint32Le(ctx, fdPtr2)
	require.Equal(t, fd1, fd2)
}

func TestPathOpenMissingWithoutCreatIsNoent(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 256)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(100)
	putString(t, inst.Mem, pathPtr, "missing")
	errno := imports["path_open"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(pathPtr), uint64(len("missing")), 0, 0, 0, 0, 200})
	require.Equal(t, abi.ErrnoNoent, errno)
}

func TestPathOpenExclOnExistingIsExist(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	require.NoError(t, fs.Seed("/sandbox/f", []byte("x")))
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 256)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(100)
	putString(t, inst.Mem, pathPtr, "f")
	oflags := abi.OflagsCreat | abi.OflagsExcl
	errno := imports["path_open"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(pathPtr), 1, uint64(oflags), 0, 0, 0, 200})
	require.Equal(t, abi.ErrnoExist, errno)
}

func TestFdPrestatGetAndDirName(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 256)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	statPtr := uint32(100)
	errno := imports["fd_prestat_get"].Func(ctx, inst, []uint64{uint64(preopenFd), uint64(statPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	pathLen, ok := inst.Mem.ReadUint32Le(ctx, statPtr+4)
	require.True(t, ok)
	require.Equal(t, uint32(len("/sandbox")), pathLen)

	namePtr := uint32(150)
	errno = imports["fd_prestat_dir_name"].Func(ctx, inst, []uint64{uint64(preopenFd), uint64(namePtr), uint64(pathLen)})
	require.Equal(t, abi.ErrnoSuccess, errno)
	got, ok := abi.ReadString(ctx, inst.Mem, namePtr, pathLen)
	require.True(t, ok)
	require.Equal(t, "/sandbox", got)
}

func TestPathCreateDirectoryThenUnlink(t *testing.T) {
	fs := fsys.New([]fsys.Preopen{{GuestPath: "/sandbox", HostHint: "/sandbox"}}, nil, nil, nil)
	imports := fs.Imports()
	inst := wasitest.NewInstance("guest", 256)
	ctx := context.Background()

	preopenFd := fs.Preopens()[0]
	pathPtr := uint32(100)
	putString(t, inst.Mem, pathPtr, "sub")
	errno := imports["path_create_directory"].Func(ctx, inst, []uint64{uint64(preopenFd), uint64(pathPtr), 3})
	require.Equal(t, abi.ErrnoSuccess, errno)

	filePtr := uint32(150)
	putString(t, inst.Mem, filePtr, "sub/f")
	openedFdPtr := uint32(200)
	errno = imports["path_open"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(filePtr), 5, uint64(abi.OflagsCreat), 0, 0, 0, uint64(openedFdPtr)})
	require.Equal(t, abi.ErrnoSuccess, errno)

	errno = imports["path_unlink_file"].Func(ctx, inst, []uint64{uint64(preopenFd), uint64(filePtr), 5})
	require.Equal(t, abi.ErrnoSuccess, errno)

	errno = imports["path_filestat_get"].Func(ctx, inst, []uint64{uint64(preopenFd), 0, uint64(filePtr), 5, 300})
	require.Equal(t, abi.ErrnoNoent, errno)
}
