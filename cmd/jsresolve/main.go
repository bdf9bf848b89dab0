// Command jsresolve is a thin CLI wrapper around the resolver service: it
// resolves one require string against a requesting file (or the project
// root), printing the resulting resource name (or, with --json, the full
// resource record as JSON), and bridges the
// resolver's per-call diagnostics into structured process logging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags, following the pack's
// version-stamping convention (see dphaener-conduit's cmd/conduit/main.go).
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "jsresolve",
		Short: "Node-compatible package resolver and file-info indexer",
		Long: `jsresolve implements Node.js/webpack-style package.json resolution
(main/module/browser/exports/imports) and extracts the metadata a
downstream module compiler needs — namespace, declared requires, cache
key — from the file it resolves to.`,
	}

	root.AddCommand(newResolveCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jsresolve version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}
}
