// Package wasi implements the feature-provider composition model: an
// import table for "wasi_snapshot_preview1" assembled from independently
// selectable Provider values, with every name in the fixed import set
// filled by an ENOSYS stub when no selected provider supplies it.
package wasi

// ModuleName is the module name WASI functions are imported under.
//
// See https://github.com/WebAssembly/WASI/blob/snapshot-01/phases/snapshot/docs.md
const ModuleName = "wasi_snapshot_preview1"

// Names is the closed set of import-function names a guest may bind under
// ModuleName. Every provider selection produces a table with exactly these
// keys: names no provider supplies are filled with a stub returning
// ErrnoNosys (spec.md §3, §4.8).
var Names = []string{
	"args_get",
	"args_sizes_get",
	"clock_res_get",
	"clock_time_get",
	"environ_get",
	"environ_sizes_get",
	"fd_advise",
	"fd_allocate",
	"fd_close",
	"fd_datasync",
	"fd_fdstat_get",
	"fd_fdstat_set_flags",
	"fd_fdstat_set_rights",
	"fd_filestat_get",
	"fd_filestat_set_size",
	"fd_filestat_set_times",
	"fd_pread",
	"fd_prestat_dir_name",
	"fd_prestat_get",
	"fd_pwrite",
	"fd_read",
	"fd_readdir",
	"fd_renumber",
	"fd_seek",
	"fd_sync",
	"fd_tell",
	"fd_write",
	"path_create_directory",
	"path_filestat_get",
	"path_filestat_set_times",
	"path_link",
	"path_open",
	"path_readlink",
	"path_remove_directory",
	"path_rename",
	"path_symlink",
	"path_unlink_file",
	"poll_oneoff",
	"proc_exit",
	"proc_raise",
	"random_get",
	"sched_yield",
	"sock_accept",
	"sock_recv",
	"sock_send",
	"sock_shutdown",
}

// nameSet is Names as a lookup set, built once at init.
var nameSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Names))
	for _, n := range Names {
		s[n] = struct{}{}
	}
	return s
}()

// IsKnownName reports whether name is a member of the fixed import set.
func IsKnownName(name string) bool {
	_, ok := nameSet[name]
	return ok
}
