// quai-evm runs transactions and bytecode against a local Quai ledger.
package main

import (
	"os"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
