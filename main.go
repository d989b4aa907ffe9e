// ABOUTME: Entry point for bookx CLI
// ABOUTME: Terminal client for the BookX peer-to-peer book exchange

package main

import (
	"fmt"
	"os"

	"github.com/swapbook/bookx/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
