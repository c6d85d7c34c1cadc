// Command rjsls runs the RJS language server over stdio (spec §4.7).
package main

import (
	"fmt"
	"os"

	"github.com/rustyjsonserver/rjs/lsp"
)

func main() {
	tr := lsp.NewTransport(lsp.NewServer(), os.Stdin, os.Stdout)
	if err := tr.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rjsls: %v\n", err)
		os.Exit(1)
	}
}
