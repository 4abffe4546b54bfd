package fsys

import (
	"errors"
	"fmt"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/provider"
)

// ErrNotDirectory is returned internally when a path traverses a
// non-directory component; handlers translate it to ErrnoNotdir.
var ErrNotDirectory = errors.New("fsys: not a directory")

// Preopen names a guest-visible directory the embedder grants at
// construction time. Guest paths under GuestPath resolve relative to it
// once the guest discovers it through fd_prestat_*. Expressed as an
// ordered slice, not a map, since registration order fixes descriptor
// numbering (spec.md §4.7) and Go maps have no stable iteration order.
type Preopen struct {
	GuestPath string
	HostHint  string
}

// openFile is one entry in the descriptor table.
type openFile struct {
	node      *node
	position  uint64
	path      string
	fd        uint32
	isPreopen bool
	hostHint  string
}

// FileSystem is the sandboxed in-memory tree plus its open-file table.
// The zero value is not usable; construct with New.
type FileSystem struct {
	root      *node
	openFiles map[uint32]*openFile
	byPath    map[string]uint32
	preopens  []uint32 // fds, in registration order
	nextFd    uint32
}

// New builds a FileSystem with /dev and /dev/null ensured, the given
// preopens registered as directories starting at fd 3 in order (an empty
// preopens list defaults to a single "/" preopen, per spec.md §4.7), and
// descriptors 0-2 bound to the given stdio proxies. A nil proxy behaves
// as an always-EOF reader / discarding writer (see provider.NewStdio).
func New(preopens []Preopen, stdin *provider.ReadableProxy, stdout, stderr *provider.WritableProxy) *FileSystem {
	if stdin == nil {
		stdin = provider.NewReadableProxy(nil)
	}
	if stdout == nil {
		stdout = provider.NewWritableProxy(nil)
	}
	if stderr == nil {
		stderr = provider.NewWritableProxy(nil)
	}
	fs := &FileSystem{
		root:      newDirectory(),
		openFiles: map[uint32]*openFile{},
		byPath:    map[string]uint32{},
		nextFd:    3,
	}

	fs.openFiles[0] = &openFile{node: newStdioDevice(stdin, nil), fd: 0}
	fs.openFiles[1] = &openFile{node: newStdioDevice(nil, stdout), fd: 1}
	fs.openFiles[2] = &openFile{node: newStdioDevice(nil, stderr), fd: 2}

	if _, err := fs.ensureDir("/dev"); err != nil {
		panic(fmt.Sprintf("fsys: cannot ensure /dev: %v", err))
	}
	devDir, _ := fs.lookupDir("/dev")
	if _, ok := devDir.children["null"]; !ok {
		devDir.children["null"] = newDevnull()
	}

	if len(preopens) == 0 {
		preopens = []Preopen{{GuestPath: "/", HostHint: "/"}}
	}
	for _, p := range preopens {
		guestPath := Normalize(p.GuestPath)
		dirNode, err := fs.ensureDir(guestPath)
		if err != nil {
			panic(fmt.Sprintf("fsys: cannot ensure preopen %q: %v", p.GuestPath, err))
		}
		fd := fs.nextFd
		fs.nextFd++
		fs.openFiles[fd] = &openFile{node: dirNode, path: guestPath, fd: fd, isPreopen: true, hostHint: p.HostHint}
		fs.byPath[guestPath] = fd
		fs.preopens = append(fs.preopens, fd)
	}

	return fs
}

// Preopens returns the preopen descriptor numbers in registration order.
func (fs *FileSystem) Preopens() []uint32 {
	out := make([]uint32, len(fs.preopens))
	copy(out, fs.preopens)
	return out
}

// Seed places content at an absolute path, creating intermediate
// directories as needed. It is a construction-time convenience for
// embedders and tests; it does not go through path_open's fd allocation.
func (fs *FileSystem) Seed(path string, content []byte) error {
	dir, name := split(Normalize(path))
	dirNode, err := fs.ensureDir(dir)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("fsys: cannot seed root path %q", path)
	}
	f := newRegularFile()
	f.content = append([]byte(nil), content...)
	dirNode.children[name] = f
	return nil
}

// lookupDir walks path from root, requiring every component (including
// the final one) to be an existing directory.
func (fs *FileSystem) lookupDir(path string) (*node, bool) {
	n := fs.root
	for _, seg := range segments(path) {
		child, ok := n.children[seg]
		if !ok || child.kind != abi.FiletypeDirectory {
			return nil, false
		}
		n = child
	}
	return n, true
}

// lookup walks path from root and reports the node at the end, if any,
// along with the node's parent directory and base name (needed by
// callers that may create or remove the entry).
func (fs *FileSystem) lookup(path string) (n, parent *node, name string, found bool, err error) {
	segs := segments(path)
	parent = fs.root
	if len(segs) == 0 {
		return fs.root, nil, "", true, nil
	}
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent.children[seg]
		if !ok {
			return nil, nil, "", false, nil
		}
		if child.kind != abi.FiletypeDirectory {
			return nil, nil, "", false, ErrNotDirectory
		}
		parent = child
	}
	name = segs[len(segs)-1]
	child, ok := parent.children[name]
	return child, parent, name, ok, nil
}

// ensureDir creates every missing directory component of path, failing
// if an existing non-directory component blocks the way.
func (fs *FileSystem) ensureDir(path string) (*node, error) {
	n := fs.root
	for _, seg := range segments(path) {
		child, ok := n.children[seg]
		if !ok {
			child = newDirectory()
			n.children[seg] = child
		} else if child.kind != abi.FiletypeDirectory {
			return nil, ErrNotDirectory
		}
		n = child
	}
	return n, nil
}

// allocate registers a new open-file entry bound to n at the given
// absolute path and returns its descriptor. Fds increase monotonically
// and are never reused (spec.md §3).
func (fs *FileSystem) allocate(path string, n *node) uint32 {
	fd := fs.nextFd
	fs.nextFd++
	fs.openFiles[fd] = &openFile{node: n, path: path, fd: fd}
	fs.byPath[path] = fd
	return fd
}
