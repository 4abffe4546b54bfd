// Package fsys implements the sandboxed in-memory file system: a tree of
// directory, regular-file, and character-device nodes, an open-file
// table keyed by file descriptor, preopen enumeration, and the fd_*/
// path_* WASI imports that operate on them (spec.md §4.7).
//
// Grounded on the shape of wazero's imports/wasi_snapshot_preview1
// providers (one wasi.Provider per group of related syscalls), adapted
// here to a stateful tree instead of an os-backed FS.
package fsys

import "strings"

// segments splits path on '/', drops empty and "." segments, and pops a
// segment on "..". It never returns an error: a leading ".." past the
// root is simply absorbed, matching spec.md §4.7's normalization rule.
func segments(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, p)
		}
	}
	return out
}

// Normalize collapses path to its canonical absolute form: empty
// segments and "." are dropped, ".." pops a segment, and the result
// always starts with "/". An empty or root path normalizes to "/".
//
//	Normalize("/a//b/./c") == "/a/b/c"
//	Normalize("/a/b/../c") == "/a/c"
//	Normalize("")          == "/"
func Normalize(path string) string {
	segs := segments(path)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// join resolves rel against the absolute directory base, then normalizes
// the result. An absolute rel (starting with "/") is normalized on its
// own, ignoring base — this matches how libc callers pass either an
// absolute or dirfd-relative path to path_open.
func join(base, rel string) string {
	if strings.HasPrefix(rel, "/") {
		return Normalize(rel)
	}
	return Normalize(base + "/" + rel)
}

// split returns the parent directory path and base name of an already
// normalized absolute path. split("/a/b") == ("/a", "b");
// split("/a") == ("/", "a").
func split(path string) (dir, name string) {
	segs := segments(path)
	if len(segs) == 0 {
		return "/", ""
	}
	name = segs[len(segs)-1]
	if len(segs) == 1 {
		return "/", name
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/"), name
}
