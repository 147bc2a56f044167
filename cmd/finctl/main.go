// Package main is the entry point for the finctl operator CLI.
package main

import (
	"os"

	"pocket-ledger/cmd/finctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
