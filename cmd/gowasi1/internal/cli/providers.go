package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tetratelabs/gowasi1/fsys"
	"github.com/tetratelabs/gowasi1/provider"
	"github.com/tetratelabs/gowasi1/wasi"
)

// buildProviders assembles the feature-provider list buildProviders'
// caller passes to driver.New, wiring os.Stdin/os.Stdout/os.Stderr
// through the same Readable/Writable proxies the core uses for a real
// guest (spec.md §4.6). --with-fs takes precedence over --with-stdio:
// when both are set, only the memory file system provider is added.
func buildProviders(f *featureFlags, logger logrus.FieldLogger) ([]wasi.Provider, error) {
	var providers []wasi.Provider

	if f.withArgs {
		providers = append(providers, provider.NewArgs(f.args))
	}
	if f.withEnviron {
		env, err := f.environMap()
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider.NewEnviron(env))
	}
	if f.withClock {
		providers = append(providers, provider.NewClock())
	}
	if f.withProc {
		providers = append(providers, provider.NewProc())
	}
	if f.withRandom {
		providers = append(providers, provider.NewRandom())
	}

	stdin := provider.NewReadableProxy(provider.BytesReader(stdinConsumer(os.Stdin)))
	stdout := provider.NewWritableProxy(provider.BytesWriter(func(p []byte) error {
		_, err := os.Stdout.Write(p)
		return err
	}))
	stderr := provider.NewWritableProxy(provider.BytesWriter(func(p []byte) error {
		_, err := os.Stderr.Write(p)
		return err
	}))

	switch {
	case f.withFS:
		preopens, err := f.preopenList()
		if err != nil {
			return nil, err
		}
		providers = append(providers, fsys.New(preopens, stdin, stdout, stderr))
	case f.withStdio:
		providers = append(providers, provider.NewStdio(stdin, stdout, stderr))
	}

	if f.withTracing {
		providers = []wasi.Provider{wasi.NewTracing(logger, providers...)}
	}
	return providers, nil
}

// stdinConsumer returns a consume() callback reading fixed-size chunks
// from r, reporting EOF as an empty read per spec.md §4.6.
func stdinConsumer(r io.Reader) func() ([]byte, error) {
	buffered := bufio.NewReader(r)
	return func() ([]byte, error) {
		buf := make([]byte, 4096)
		n, err := buffered.Read(buf)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("cli: reading stdin: %w", err)
		}
		return buf[:n], nil
	}
}
