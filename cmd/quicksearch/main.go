// Command quicksearch searches scene nodes incrementally.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
