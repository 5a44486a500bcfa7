// main is the entry point for the evotrack CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/evotrack/cmd"
	"github.com/huangsam/evotrack/internal/iocache"
)

func main() {
	os.Exit(run())
}

// run executes the root command and tears down shared resources.
// It exists so deferred cleanup runs before the process exits.
func run() int {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			fmt.Fprintln(os.Stderr, "⚠️  Warning: could not stop profiling:", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		return 1
	}
	return 0
}
