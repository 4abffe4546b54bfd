package fsys

import (
	"context"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// Imports implements wasi.Provider. When composed after provider.Stdio
// (spec.md §4.8), FileSystem's fd_read/fd_write/fd_close/fd_fdstat_get
// win the name collision and give stdio descriptors the same tree-backed
// dispatch as any other node, while every path_* and the remaining fd_*
// operations come only from here.
func (fs *FileSystem) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"fd_read": {
			Name:       "fd_read",
			ParamNames: []string{"fd", "iovs", "iovs_len", "result.nread"},
			Func:       fs.fdRead,
		},
		"fd_write": {
			Name:       "fd_write",
			ParamNames: []string{"fd", "iovs", "iovs_len", "result.nwritten"},
			Func:       fs.fdWrite,
		},
		"fd_seek": {
			Name:       "fd_seek",
			ParamNames: []string{"fd", "offset", "whence", "result.newoffset"},
			Func:       fs.fdSeek,
		},
		"fd_tell": {
			Name:       "fd_tell",
			ParamNames: []string{"fd", "result.offset"},
			Func:       fs.fdTell,
		},
		"fd_close": {
			Name:       "fd_close",
			ParamNames: []string{"fd"},
			Func:       fs.fdClose,
		},
		"fd_fdstat_get": {
			Name:       "fd_fdstat_get",
			ParamNames: []string{"fd", "result.stat"},
			Func:       fs.fdFdstatGet,
		},
		"fd_filestat_get": {
			Name:       "fd_filestat_get",
			ParamNames: []string{"fd", "result.buf"},
			Func:       fs.fdFilestatGet,
		},
		"fd_prestat_get": {
			Name:       "fd_prestat_get",
			ParamNames: []string{"fd", "result.buf"},
			Func:       fs.fdPrestatGet,
		},
		"fd_prestat_dir_name": {
			Name:       "fd_prestat_dir_name",
			ParamNames: []string{"fd", "path", "path_len"},
			Func:       fs.fdPrestatDirName,
		},
		"path_create_directory": {
			Name:       "path_create_directory",
			ParamNames: []string{"fd", "path", "path_len"},
			Func:       fs.pathCreateDirectory,
		},
		"path_unlink_file": {
			Name:       "path_unlink_file",
			ParamNames: []string{"fd", "path", "path_len"},
			Func:       fs.pathRemove,
		},
		"path_remove_directory": {
			Name:       "path_remove_directory",
			ParamNames: []string{"fd", "path", "path_len"},
			Func:       fs.pathRemove,
		},
		"path_filestat_get": {
			Name:       "path_filestat_get",
			ParamNames: []string{"fd", "flags", "path", "path_len", "result.buf"},
			Func:       fs.pathFilestatGet,
		},
		"path_open": {
			Name:       "path_open",
			ParamNames: []string{"fd", "dirflags", "path", "path_len", "oflags", "fs_rights_base", "fs_rights_inheriting", "fdflags", "result.opened_fd"},
			Func:       fs.pathOpen,
		},
	}
}

func (fs *FileSystem) fdRead(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, iovsPtr, iovsLen, resultPtr := uint32(params[0]), uint32(params[1]), uint32(params[2]), uint32(params[3])
	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	iovs, ok := abi.DecodeIOVecs(ctx, mem, iovsPtr, iovsLen)
	if !ok {
		return abi.ErrnoFault
	}

	var n uint32
	switch of.node.kind {
	case abi.FiletypeDirectory:
		return abi.ErrnoIsdir
	case abi.FiletypeCharacterDevice:
		if of.node.devnull {
			n = 0
		} else if of.node.readable == nil {
			return abi.ErrnoBadf
		} else {
			var err error
			n, err = of.node.readable.Readv(ctx, mem, iovs)
			if err != nil {
				return abi.ErrnoIo
			}
		}
	default: // regular file
		var faultOk bool
		n, faultOk = readRegular(ctx, mem, of, iovs)
		if !faultOk {
			return abi.ErrnoFault
		}
	}
	if !mem.WriteUint32Le(ctx, resultPtr, n) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) fdWrite(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, iovsPtr, iovsLen, resultPtr := uint32(params[0]), uint32(params[1]), uint32(params[2]), uint32(params[3])
	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	iovs, ok := abi.DecodeIOVecs(ctx, mem, iovsPtr, iovsLen)
	if !ok {
		return abi.ErrnoFault
	}

	var n uint32
	switch of.node.kind {
	case abi.FiletypeDirectory:
		return abi.ErrnoIsdir
	case abi.FiletypeCharacterDevice:
		if of.node.devnull {
			for _, iov := range iovs {
				n += iov.Length
			}
		} else if of.node.writable == nil {
			return abi.ErrnoBadf
		} else {
			var err error
			n, err = of.node.writable.Writev(ctx, mem, iovs)
			if err != nil {
				return abi.ErrnoIo
			}
		}
	default: // regular file
		var faultOk bool
		n, faultOk = writeRegular(ctx, mem, of, iovs)
		if !faultOk {
			return abi.ErrnoFault
		}
	}
	if !mem.WriteUint32Le(ctx, resultPtr, n) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

// readRegular fills iovs from a regular file's content starting at the
// open file's position, advancing it, and stops early at EOF.
func readRegular(ctx context.Context, mem abi.Memory, of *openFile, iovs []abi.IOVec) (uint32, bool) {
	var total uint32
	for _, iov := range iovs {
		if iov.Length == 0 {
			continue
		}
		if of.position >= uint64(len(of.node.content)) {
			break
		}
		available := uint64(len(of.node.content)) - of.position
		n := uint64(iov.Length)
		if n > available {
			n = available
		}
		dst, ok := mem.Read(ctx, iov.Offset, uint32(n))
		if !ok {
			return total, false
		}
		copy(dst, of.node.content[of.position:of.position+n])
		of.position += n
		total += uint32(n)
		if n < uint64(iov.Length) {
			break
		}
	}
	return total, true
}

// writeRegular copies iovs into a regular file's content starting at the
// open file's position, growing content (and zero-filling any gap) as
// needed, per spec.md §3's hole-filling invariant.
func writeRegular(ctx context.Context, mem abi.Memory, of *openFile, iovs []abi.IOVec) (uint32, bool) {
	var total uint32
	for _, iov := range iovs {
		if iov.Length == 0 {
			continue
		}
		b, ok := mem.Read(ctx, iov.Offset, iov.Length)
		if !ok {
			return total, false
		}
		end := of.position + uint64(len(b))
		if end > uint64(len(of.node.content)) {
			grown := make([]byte, end)
			copy(grown, of.node.content)
			of.node.content = grown
		}
		copy(of.node.content[of.position:end], b)
		of.position = end
		total += uint32(len(b))
	}
	return total, true
}

func (fs *FileSystem) fdSeek(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd := uint32(params[0])
	if fd < 3 {
		return abi.ErrnoBadf
	}
	offset := int64(params[1])
	whence := uint32(params[2])
	resultPtr := uint32(params[3])

	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}

	var base int64
	switch whence {
	case abi.WhenceSet:
		base = 0
	case abi.WhenceCur:
		base = int64(of.position)
	case abi.WhenceEnd:
		base = int64(len(of.node.content))
	default:
		return abi.ErrnoInval
	}

	newPos := base + offset
	if newPos < 0 {
		newPos = 0
	}
	of.position = uint64(newPos)

	// Written as a full 64-bit filesize per spec.md §9's redesign note:
	// the surveyed source wrote only the low 32 bits.
	if !mod.Memory().WriteUint64Le(ctx, resultPtr, of.position) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) fdTell(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, resultPtr := uint32(params[0]), uint32(params[1])
	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}
	if !mod.Memory().WriteUint64Le(ctx, resultPtr, of.position) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

// fdClose invokes stdio's close hook without removing descriptors 0-2
// from the table (spec.md §9, "stdio close semantics" — treated as
// intentional). Any other descriptor is removed and its path freed for
// a future non-deduplicated reopen.
func (fs *FileSystem) fdClose(_ context.Context, _ abi.Module, params []uint64) abi.Errno {
	fd := uint32(params[0])
	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}
	if fd < 3 {
		if of.node.readable != nil {
			_ = of.node.readable.Close()
		}
		if of.node.writable != nil {
			_ = of.node.writable.Close()
		}
		return abi.ErrnoSuccess
	}
	delete(fs.openFiles, fd)
	if of.path != "" {
		delete(fs.byPath, of.path)
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) fdFdstatGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, resultPtr := uint32(params[0]), uint32(params[1])
	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}
	if !abi.WriteFdstat(ctx, mod.Memory(), resultPtr, of.node.kind, 0) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) fdFilestatGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, resultPtr := uint32(params[0]), uint32(params[1])
	of, ok := fs.openFiles[fd]
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	if !abi.WriteFilestat(ctx, mem, resultPtr, of.node.kind) {
		return abi.ErrnoFault
	}
	if of.node.kind == abi.FiletypeRegularFile {
		if !abi.WriteFilestatSize(ctx, mem, resultPtr, uint64(len(of.node.content))) {
			return abi.ErrnoFault
		}
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) fdPrestatGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, resultPtr := uint32(params[0]), uint32(params[1])
	of, ok := fs.openFiles[fd]
	if !ok || !of.isPreopen {
		return abi.ErrnoBadf
	}
	if !abi.WritePrestatDir(ctx, mod.Memory(), resultPtr, uint32(len(of.path))) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) fdPrestatDirName(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, pathPtr, pathLen := uint32(params[0]), uint32(params[1]), uint32(params[2])
	of, ok := fs.openFiles[fd]
	if !ok || !of.isPreopen {
		return abi.ErrnoBadf
	}
	if uint32(len(of.path)) != pathLen {
		return abi.ErrnoInval
	}
	if !mod.Memory().Write(ctx, pathPtr, []byte(of.path)) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) pathCreateDirectory(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	dirFd, pathPtr, pathLen := uint32(params[0]), uint32(params[1]), uint32(params[2])
	base, ok := fs.resolveDirFd(dirFd)
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	rel, ok := abi.ReadString(ctx, mem, pathPtr, pathLen)
	if !ok {
		return abi.ErrnoFault
	}
	if _, err := fs.ensureDir(join(base.path, rel)); err != nil {
		return abi.ErrnoNotdir
	}
	return abi.ErrnoSuccess
}

// pathRemove implements both path_unlink_file and path_remove_directory:
// this core imposes no recursion or kind check on removal (spec.md §4.7).
func (fs *FileSystem) pathRemove(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	dirFd, pathPtr, pathLen := uint32(params[0]), uint32(params[1]), uint32(params[2])
	base, ok := fs.resolveDirFd(dirFd)
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	rel, ok := abi.ReadString(ctx, mem, pathPtr, pathLen)
	if !ok {
		return abi.ErrnoFault
	}
	abs := join(base.path, rel)
	_, parent, name, found, err := fs.lookup(abs)
	if err != nil {
		return abi.ErrnoNotdir
	}
	if !found {
		return abi.ErrnoNoent
	}
	delete(parent.children, name)
	delete(fs.byPath, abs)
	return abi.ErrnoSuccess
}

func (fs *FileSystem) pathFilestatGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	dirFd, pathPtr, pathLen, resultPtr := uint32(params[0]), uint32(params[2]), uint32(params[3]), uint32(params[4])
	base, ok := fs.resolveDirFd(dirFd)
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	rel, ok := abi.ReadString(ctx, mem, pathPtr, pathLen)
	if !ok {
		return abi.ErrnoFault
	}
	n, _, _, found, err := fs.lookup(join(base.path, rel))
	if err != nil {
		return abi.ErrnoNotdir
	}
	if !found {
		return abi.ErrnoNoent
	}
	if n.kind == abi.FiletypeCharacterDevice {
		return abi.ErrnoInval
	}
	if !abi.WriteFilestat(ctx, mem, resultPtr, n.kind) {
		return abi.ErrnoFault
	}
	if n.kind == abi.FiletypeRegularFile {
		if !abi.WriteFilestatSize(ctx, mem, resultPtr, uint64(len(n.content))) {
			return abi.ErrnoFault
		}
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) pathOpen(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	dirFd := uint32(params[0])
	pathPtr, pathLen := uint32(params[2]), uint32(params[3])
	oflags := uint32(params[4])
	resultPtr := uint32(params[8])

	base, ok := fs.resolveDirFd(dirFd)
	if !ok {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	rel, ok := abi.ReadString(ctx, mem, pathPtr, pathLen)
	if !ok {
		return abi.ErrnoFault
	}
	abs := join(base.path, rel)

	if fd, dup := fs.byPath[abs]; dup {
		if !mem.WriteUint32Le(ctx, resultPtr, fd) {
			return abi.ErrnoFault
		}
		return abi.ErrnoSuccess
	}

	n, parent, name, found, err := fs.lookup(abs)
	if err != nil {
		return abi.ErrnoNotdir
	}

	switch {
	case found && oflags&abi.OflagsExcl != 0:
		return abi.ErrnoExist
	case found && n.kind == abi.FiletypeRegularFile && oflags&abi.OflagsTrunc != 0:
		n.content = nil
	case !found && oflags&abi.OflagsCreat == 0:
		return abi.ErrnoNoent
	case !found:
		n = newRegularFile()
		parent.children[name] = n
	}

	fd := fs.allocate(abs, n)
	if !mem.WriteUint32Le(ctx, resultPtr, fd) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (fs *FileSystem) resolveDirFd(fd uint32) (*openFile, bool) {
	of, ok := fs.openFiles[fd]
	if !ok || of.node.kind != abi.FiletypeDirectory {
		return nil, false
	}
	return of, true
}
