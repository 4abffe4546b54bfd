package abi

import "context"

// IOVec is a decoded iovec: an 8-byte guest-memory descriptor
// {buf: u32, len: u32} used for scatter/gather I/O.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#-ciovec-struct
type IOVec struct {
	Offset uint32
	Length uint32
}

// DecodeIOVecs decodes iovsLen consecutive 8-byte iovec structs starting at
// iovsPtr. It does not read the memory the iovecs describe; callers use
// Memory.Read/Write against each IOVec's Offset/Length to get an aliased
// view, re-derived per spec.md §9's guest-memory-view rule.
func DecodeIOVecs(ctx context.Context, mem Memory, iovsPtr, iovsLen uint32) ([]IOVec, bool) {
	iovs := make([]IOVec, iovsLen)
	for i := uint32(0); i < iovsLen; i++ {
		base := iovsPtr + i*8
		offset, ok := mem.ReadUint32Le(ctx, base)
		if !ok {
			return nil, false
		}
		length, ok := mem.ReadUint32Le(ctx, base+4)
		if !ok {
			return nil, false
		}
		iovs[i] = IOVec{Offset: offset, Length: length}
	}
	return iovs, true
}

// ByteLength returns the UTF-8 byte length of s.
func ByteLength(s string) uint32 { return uint32(len(s)) }

// WriteString writes the UTF-8 bytes of s at off with no NUL terminator,
// returning the number of bytes written.
func WriteString(ctx context.Context, mem Memory, s string, off uint32) (uint32, bool) {
	if !mem.Write(ctx, off, []byte(s)) {
		return 0, false
	}
	return uint32(len(s)), true
}

// ReadString decodes a UTF-8 string from the byte range [ptr, ptr+length).
func ReadString(ctx context.Context, mem Memory, ptr, length uint32) (string, bool) {
	b, ok := mem.Read(ctx, ptr, length)
	if !ok {
		return "", false
	}
	return string(b), true
}

// WriteNullTerminatedValues writes offsets, one uint32 per element of
// values, to offsetsPtr (stride 4), and the values themselves back-to-back
// with a trailing NUL to bytesPtr. Used by args_get and environ_get: each
// writes an offset table followed by a packed, NUL-terminated string blob.
func WriteNullTerminatedValues(ctx context.Context, mem Memory, values []string, offsetsPtr, bytesPtr uint32) bool {
	for _, v := range values {
		if !mem.WriteUint32Le(ctx, offsetsPtr, bytesPtr) {
			return false
		}
		offsetsPtr += 4

		if !mem.Write(ctx, bytesPtr, []byte(v)) {
			return false
		}
		bytesPtr += uint32(len(v))
		if !mem.WriteByte(ctx, bytesPtr, 0) {
			return false
		}
		bytesPtr++
	}
	return true
}

// WriteFilestat writes a 64-byte filestat struct at ptr with the given
// filetype and all other fields zeroed. Callers needing a non-zero size
// overwrite it at ptr+32 afterward.
//
// Layout (see spec.md §6):
//
//	dev:u64 @0, ino:u64 @8, filetype:u8 @16, nlink:u32 @24 (padded to 8),
//	size:u64 @32, atim:u64 @40, mtim:u64 @48, ctim:u64 @56.
func WriteFilestat(ctx context.Context, mem Memory, ptr uint32, filetype Filetype) bool {
	buf := make([]byte, 64)
	buf[16] = filetype
	return mem.Write(ctx, ptr, buf)
}

// WriteFilestatSize overwrites the size field of an already-written
// filestat struct at ptr.
func WriteFilestatSize(ctx context.Context, mem Memory, ptr uint32, size uint64) bool {
	return mem.WriteUint64Le(ctx, ptr+32, size)
}

// WriteFdstat writes a 24-byte fdstat struct at ptr.
//
// Layout (see spec.md §6):
//
//	filetype:u8 @0, flags:u16 @2, rights_base:u64 @8, rights_inheriting:u64 @16.
func WriteFdstat(ctx context.Context, mem Memory, ptr uint32, filetype Filetype, flags uint16) bool {
	if !mem.WriteByte(ctx, ptr, filetype) {
		return false
	}
	if !mem.WriteUint16Le(ctx, ptr+2, flags) {
		return false
	}
	if !mem.WriteUint64Le(ctx, ptr+8, 0) {
		return false
	}
	return mem.WriteUint64Le(ctx, ptr+16, 0)
}

// WritePrestatDir writes an 8-byte prestat struct: a zero tag byte
// (prestat_dir, the only defined variant) followed by the path length.
func WritePrestatDir(ctx context.Context, mem Memory, ptr uint32, pathLen uint32) bool {
	if !mem.WriteUint32Le(ctx, ptr, 0) {
		return false
	}
	return mem.WriteUint32Le(ctx, ptr+4, pathLen)
}
