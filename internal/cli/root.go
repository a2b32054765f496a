// Package cli implements the semanta command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "semanta",
	Short: "Semanta - lightweight Python structure scanner",
	Long: `Semanta scans a directory of Python source files, parses each file
into a syntax tree, and extracts a structural symbol table: top-level
functions with their parameters and directly-assigned locals, classes
with their methods, and import statements.

It is a quick structural inventory, not a compiler front end: no type
inference, no scope resolution, no control-flow analysis.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
