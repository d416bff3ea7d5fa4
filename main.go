// main holds the entry logic for the pow3r CLI.
package main

import (
	"fmt"
	"os"

	"github.com/memorymusicllc/pow3r/cmd"
	"github.com/memorymusicllc/pow3r/internal/contract"
	"github.com/memorymusicllc/pow3r/internal/iocache"
)

// main is the entry point for the pow3r CLI.
func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("stopping profiler", profErr)
	}
	iocache.CloseStores()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
