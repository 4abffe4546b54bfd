package provider

import (
	"context"
	"errors"

	"github.com/tetratelabs/gowasi1/abi"
	"github.com/tetratelabs/gowasi1/wasi"
)

// ErrMemoryFault is returned by a proxy when a guest-supplied iovec falls
// outside the guest's linear memory.
var ErrMemoryFault = errors.New("provider: iovec out of bounds")

// Writer is a host-supplied sink for guest-produced bytes: stdout, stderr,
// or a file the embedder wants to observe. Two constructors below adapt a
// []byte-shaped or string-shaped host callback to this interface,
// standing in for spec.md §4.6's "outputBuffers" configuration switch
// between a byte-buffer handler and a UTF-8 string handler.
type Writer interface {
	Write(p []byte) error
}

type writerFunc func([]byte) error

func (f writerFunc) Write(p []byte) error { return f(p) }

// BytesWriter adapts a []byte-shaped host handler into a Writer.
func BytesWriter(fn func([]byte) error) Writer { return writerFunc(fn) }

// StringWriter adapts a UTF-8 string-shaped host handler into a Writer.
func StringWriter(fn func(string) error) Writer {
	return writerFunc(func(p []byte) error { return fn(string(p)) })
}

// Reader is a host-supplied source of guest-consumed bytes: stdin. Consume
// returns the next chunk, or a zero-length result to signal EOF.
type Reader interface {
	Consume() ([]byte, error)
}

type readerFunc func() ([]byte, error)

func (f readerFunc) Consume() ([]byte, error) { return f() }

// BytesReader adapts a []byte-shaped consume() callback into a Reader.
func BytesReader(fn func() ([]byte, error)) Reader { return readerFunc(fn) }

// StringReader adapts a UTF-8 string-shaped consume() callback into a
// Reader.
func StringReader(fn func() (string, error)) Reader {
	return readerFunc(func() ([]byte, error) {
		s, err := fn()
		return []byte(s), err
	})
}

// WritableProxy is the host-side end of a writable stdio slot (stdout,
// stderr). Writev concatenates the guest's iovecs into one contiguous
// byte sequence before handing it to the underlying Writer, per
// spec.md §4.6.
type WritableProxy struct {
	w Writer
}

// NewWritableProxy wraps w as a WritableProxy. A nil w discards writes,
// used for stdio slots the embedder did not configure.
func NewWritableProxy(w Writer) *WritableProxy { return &WritableProxy{w: w} }

// Writev reads iovs from mem, concatenates them, and writes the result.
// It returns the number of bytes written.
func (p *WritableProxy) Writev(ctx context.Context, mem abi.Memory, iovs []abi.IOVec) (uint32, error) {
	var buf []byte
	for _, iov := range iovs {
		if iov.Length == 0 {
			continue
		}
		b, ok := mem.Read(ctx, iov.Offset, iov.Length)
		if !ok {
			return 0, ErrMemoryFault
		}
		buf = append(buf, b...)
	}
	if p.w == nil {
		return uint32(len(buf)), nil
	}
	if err := p.w.Write(buf); err != nil {
		return 0, err
	}
	return uint32(len(buf)), nil
}

// Close invokes the underlying writer's Close hook, if any. Per spec.md
// §9 ("stdio close semantics"), the table entry that owns this proxy is
// never removed for stdio, so the proxy can be reused after Close.
func (p *WritableProxy) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// ReadableProxy is the host-side end of stdin. Readv drains a carry-over
// buffer of previously produced but unconsumed bytes before invoking
// Consume repeatedly to fill the remaining iovec space (spec.md §4.6).
type ReadableProxy struct {
	r     Reader
	carry []byte
}

// NewReadableProxy wraps r as a ReadableProxy. A nil r always reports EOF.
func NewReadableProxy(r Reader) *ReadableProxy { return &ReadableProxy{r: r} }

// Readv fills iovs from the carry-over buffer and then from repeated
// Consume calls, stopping (and returning the partial count) the first
// time Consume returns an empty chunk.
func (p *ReadableProxy) Readv(ctx context.Context, mem abi.Memory, iovs []abi.IOVec) (uint32, error) {
	var total uint32
iovecs:
	for _, iov := range iovs {
		if iov.Length == 0 {
			continue
		}
		dst, ok := mem.Read(ctx, iov.Offset, iov.Length)
		if !ok {
			return total, ErrMemoryFault
		}
		var pos uint32
		for pos < iov.Length {
			if len(p.carry) == 0 {
				if p.r == nil {
					total += pos
					break iovecs
				}
				chunk, err := p.r.Consume()
				if err != nil {
					return total, err
				}
				if len(chunk) == 0 {
					total += pos
					break iovecs
				}
				p.carry = chunk
			}
			n := copy(dst[pos:], p.carry)
			p.carry = p.carry[n:]
			pos += uint32(n)
		}
		total += pos
	}
	return total, nil
}

// Close invokes the underlying reader's Close hook, if any.
func (p *ReadableProxy) Close() error {
	if c, ok := p.r.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Stdio provides fd_read, fd_write, fd_close and fd_fdstat_get for the
// three always-bound stdio descriptors (0=stdin, 1=stdout, 2=stderr) with
// no path resolution or file-descriptor table of its own. When the memory
// file system is also selected, its equivalent handlers are composed
// after this provider and win the name collision (spec.md §4.8), so
// Stdio's role is to give a guest working I/O even without a full
// sandboxed file system (spec.md §6, useAll: "otherwise plain stdio is
// used").
type Stdio struct {
	Stdin  *ReadableProxy
	Stdout *WritableProxy
	Stderr *WritableProxy
}

// NewStdio returns a Stdio provider over the given proxies. Any nil
// proxy is treated as discard-on-write / EOF-on-read.
func NewStdio(stdin *ReadableProxy, stdout, stderr *WritableProxy) *Stdio {
	if stdin == nil {
		stdin = NewReadableProxy(nil)
	}
	if stdout == nil {
		stdout = NewWritableProxy(nil)
	}
	if stderr == nil {
		stderr = NewWritableProxy(nil)
	}
	return &Stdio{Stdin: stdin, Stdout: stdout, Stderr: stderr}
}

func (s *Stdio) Imports() map[string]wasi.HostFunc {
	return map[string]wasi.HostFunc{
		"fd_read": {
			Name:       "fd_read",
			ParamNames: []string{"fd", "iovs", "iovs_len", "result.nread"},
			Func:       s.fdRead,
		},
		"fd_write": {
			Name:       "fd_write",
			ParamNames: []string{"fd", "iovs", "iovs_len", "result.nwritten"},
			Func:       s.fdWrite,
		},
		"fd_close": {
			Name:       "fd_close",
			ParamNames: []string{"fd"},
			Func:       s.fdClose,
		},
		"fd_fdstat_get": {
			Name:       "fd_fdstat_get",
			ParamNames: []string{"fd", "result.stat"},
			Func:       s.fdFdstatGet,
		},
	}
}

func (s *Stdio) fdRead(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, iovsPtr, iovsLen, resultSize := uint32(params[0]), uint32(params[1]), uint32(params[2]), uint32(params[3])
	if fd != 0 {
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	iovs, ok := abi.DecodeIOVecs(ctx, mem, iovsPtr, iovsLen)
	if !ok {
		return abi.ErrnoFault
	}
	n, err := s.Stdin.Readv(ctx, mem, iovs)
	if err != nil {
		return abi.ErrnoIo
	}
	if !mem.WriteUint32Le(ctx, resultSize, n) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (s *Stdio) fdWrite(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, iovsPtr, iovsLen, resultSize := uint32(params[0]), uint32(params[1]), uint32(params[2]), uint32(params[3])
	var out *WritableProxy
	switch fd {
	case 1:
		out = s.Stdout
	case 2:
		out = s.Stderr
	default:
		return abi.ErrnoBadf
	}
	mem := mod.Memory()
	iovs, ok := abi.DecodeIOVecs(ctx, mem, iovsPtr, iovsLen)
	if !ok {
		return abi.ErrnoFault
	}
	n, err := out.Writev(ctx, mem, iovs)
	if err != nil {
		return abi.ErrnoIo
	}
	if !mem.WriteUint32Le(ctx, resultSize, n) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}

func (s *Stdio) fdClose(_ context.Context, _ abi.Module, params []uint64) abi.Errno {
	fd := uint32(params[0])
	switch fd {
	case 0:
		_ = s.Stdin.Close()
	case 1:
		_ = s.Stdout.Close()
	case 2:
		_ = s.Stderr.Close()
	default:
		return abi.ErrnoBadf
	}
	return abi.ErrnoSuccess
}

func (s *Stdio) fdFdstatGet(ctx context.Context, mod abi.Module, params []uint64) abi.Errno {
	fd, resultStat := uint32(params[0]), uint32(params[1])
	if fd > 2 {
		return abi.ErrnoBadf
	}
	if !abi.WriteFdstat(ctx, mod.Memory(), resultStat, abi.FiletypeCharacterDevice, 0) {
		return abi.ErrnoFault
	}
	return abi.ErrnoSuccess
}
