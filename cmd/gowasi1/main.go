// Command gowasi1 is the trivial CLI-style example spec.md §1 treats as
// an external collaborator: it wires configuration into the core's
// feature-provider list and reports the resulting import table. It does
// not embed a wasm engine — see DESIGN.md for why this repo stops short
// of instantiating a guest module here.
package main

import (
	"os"

	"github.com/tetratelabs/gowasi1/cmd/gowasi1/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
