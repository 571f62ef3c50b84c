// Package main is the entry point for the csvcombine CLI.
package main

import (
	"os"

	"github.com/satishbabariya/csvcombine/cmd/csvcombine/commands"
	"github.com/satishbabariya/csvcombine/internal/ui"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
