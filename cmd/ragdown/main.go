// Package main is the entry point for the ragdown CLI.
package main

import (
	"os"

	"github.com/jmylchreest/ragdown/cmd/ragdown/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
