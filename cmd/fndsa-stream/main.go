// Command fndsa-stream benchmarks tiered Falcon signature verification on
// synthetic streams, and verifies individual signatures.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
