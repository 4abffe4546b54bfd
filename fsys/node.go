package fsys

import (
	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/provider"
)

// node is a single entry in the file-system tree. Its meaning depends on
// kind: directories carry children, regular files carry content, and
// character devices carry either the devnull sentinel or a stdio proxy
// pair. One struct with a kind tag is used rather than an interface per
// kind, since the set of kinds is closed and small (spec.md §3).
type node struct {
	kind Filetype

	// directory
	children map[string]*node

	// regular file
	content []byte

	// character device
	devnull  bool
	readable *provider.ReadableProxy
	writable *provider.WritableProxy
}

// Filetype aliases abi.Filetype for readability within this package.
type Filetype = abi.Filetype

func newDirectory() *node {
	return &node{kind: abi.FiletypeDirectory, children: map[string]*node{}}
}

func newRegularFile() *node {
	return &node{kind: abi.FiletypeRegularFile}
}

func newDevnull() *node {
	return &node{kind: abi.FiletypeCharacterDevice, devnull: true}
}

func newStdioDevice(r *provider.ReadableProxy, w *provider.WritableProxy) *node {
	return &node{kind: abi.FiletypeCharacterDevice, readable: r, writable: w}
}
