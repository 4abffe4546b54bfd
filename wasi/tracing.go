package wasi

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tetratelabs/gowasi1/abi"
)

// Tracing is a provider-of-providers (spec.md §4.8): it composes a set of
// inner providers exactly as Build does, then wraps every resulting
// function to log "name(args...) => result" before returning. Grounded on
// wazero's imports/wasi_snapshot_preview1/logging package, which
// wraps each host function with named parameter/result loggers; this
// core backs that same shape with logrus instead of a bare io.Writer,
// per SPEC_FULL.md §1's ambient-stack rationale.
type Tracing struct {
	Providers []Provider
	Logger    logrus.FieldLogger
}

// NewTracing returns a Provider that logs every call made through inner's
// composed imports at Info level using logger.
func NewTracing(logger logrus.FieldLogger, inner ...Provider) Provider {
	return &Tracing{Providers: inner, Logger: logger}
}

func (t *Tracing) Imports() map[string]HostFunc {
	inner := Build(t.Providers)
	traced := make(map[string]HostFunc, len(inner))
	for name, hf := range inner {
		traced[name] = t.wrap(hf)
	}
	return traced
}

func (t *Tracing) wrap(hf HostFunc) HostFunc {
	logger := t.Logger
	name := hf.Name
	paramNames := hf.ParamNames
	fn := hf.Func
	return HostFunc{
		Name:       name,
		ParamNames: paramNames,
		Func: func(ctx context.Context, mod abi.Module, params []uint64) (errno abi.Errno) {
			fields := logrus.Fields{"func": name, "args": formatArgs(paramNames, params)}
			defer func() {
				if r := recover(); r != nil {
					// proc_exit unwinds via panic(abi.ExitError); still log the
					// call before letting it propagate to the driver.
					logger.WithFields(fields).Info("wasi_snapshot_preview1 call (exit)")
					panic(r)
				}
			}()
			errno = fn(ctx, mod, params)
			fields["errno"] = abi.ErrnoName(errno)
			logger.WithFields(fields).Info("wasi_snapshot_preview1 call")
			return errno
		},
	}
}

func formatArgs(names []string, params []uint64) string {
	parts := make([]string, 0, len(params))
	for i, v := range params {
		if i < len(names) {
			parts = append(parts, fmt.Sprintf("%s=%d", names[i], v))
		} else {
			parts = append(parts, fmt.Sprintf("%d", v))
		}
	}
	return strings.Join(parts, ",")
}
