package abi

// Clock IDs.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#-clockid-enumu32
const (
	ClockRealtime  = uint32(0)
	ClockMonotonic = uint32(1)
	// Note: process/thread cputime clocks were removed by WASI maintainers.
	// See https://github.com/WebAssembly/wasi-libc/pull/294
)

// Filetype identifies the type of a file.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#-filetype-enumu8
type Filetype = uint8

const (
	FiletypeUnknown         Filetype = 0
	FiletypeCharacterDevice Filetype = 2
	FiletypeDirectory       Filetype = 3
	FiletypeRegularFile     Filetype = 4
)

// Open flags, passed to path_open's oflags parameter.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#-oflags-flagsu16
const (
	OflagsCreat     = uint32(1)
	OflagsDirectory = uint32(2)
	OflagsExcl      = uint32(4)
	OflagsTrunc     = uint32(8)
)

// Whence values for fd_seek.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md#-whence-enumu8
const (
	WhenceSet = uint32(0)
	WhenceCur = uint32(1)
	WhenceEnd = uint32(2)
)
