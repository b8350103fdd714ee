package main

import (
	"os"

	"github.com/arthur-debert/postgen/cmd/postgen"
	"github.com/arthur-debert/postgen/pkg/ui"
)

func main() {
	rootCmd := postgen.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printer := ui.NewPrinter(os.Stdout, os.Stderr, ui.FormatAuto)
		printer.Error("Error: %v", err)
		os.Exit(1)
	}
}
