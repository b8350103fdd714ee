package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/postgen/cmd/postgen"
	"github.com/arthur-debert/postgen/internal/version"
)

func main() {
	rootCmd := postgen.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "POSTGEN",
		Section: "1",
		Source:  "postgen " + version.Version,
		Manual:  "postgen manual",
	}

	// Without a directory argument only the top-level page is written to
	// stdout; with one, a page per command is written there.
	if len(os.Args) > 1 {
		if err := doc.GenManTree(rootCmd, header, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
