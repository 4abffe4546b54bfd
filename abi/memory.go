package abi

import "context"

// Memory is a view over a guest's linear memory. Implementations MUST be
// re-derived on every host call: the guest may grow memory between calls,
// which invalidates any previously captured view. See spec.md §5 and §9
// ("Guest memory view").
//
// The method set mirrors wazero's api.Memory, which this core
// intentionally does not import: depending on the wasm
// engine's own memory type would tie an engine-agnostic host-imports core
// to one runtime's API surface, contradicting spec.md §1's framing of the
// driver's guest instance as an external collaborator.
type Memory interface {
	// Size returns the size in bytes available.
	Size(ctx context.Context) uint32

	// Read returns a byte slice aliasing the guest memory at
	// [offset, offset+byteCount), or false if that range is out of bounds.
	// The returned slice is a view, not a copy: writes to it are visible to
	// the guest and vice versa.
	Read(ctx context.Context, offset, byteCount uint32) ([]byte, bool)

	// ReadByte reads a single byte at offset, or false if out of range.
	ReadByte(ctx context.Context, offset uint32) (byte, bool)

	// ReadUint32Le reads a little-endian uint32 at offset.
	ReadUint32Le(ctx context.Context, offset uint32) (uint32, bool)

	// ReadUint64Le reads a little-endian uint64 at offset.
	ReadUint64Le(ctx context.Context, offset uint32) (uint64, bool)

	// Write writes v at offset, or returns false if out of bounds.
	Write(ctx context.Context, offset uint32, v []byte) bool

	// WriteByte writes a single byte at offset.
	WriteByte(ctx context.Context, offset uint32, v byte) bool

	// WriteUint16Le writes a little-endian uint16 at offset.
	WriteUint16Le(ctx context.Context, offset uint32, v uint16) bool

	// WriteUint32Le writes a little-endian uint32 at offset.
	WriteUint32Le(ctx context.Context, offset uint32, v uint32) bool

	// WriteUint64Le writes a little-endian uint64 at offset.
	WriteUint64Le(ctx context.Context, offset uint32, v uint64) bool
}
