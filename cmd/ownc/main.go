// Command ownc runs the borrow-and-ownership checker over a JSON AST
// fixture (real C lexing/parsing is left to an external collaborator
// this driver does not implement) and prints the resulting diagnostics.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "ownc",
	Short:   "Static ownership and borrow checker for a subset of C",
	Version: "0.1.0",
}

// main exits 0 regardless of what the analysis found: diagnostics are
// informational output, not a process failure signal. Only a CLI usage
// error (bad flags, unreadable fixture) exits non-zero.
func main() {
	rootCmd.AddCommand(checkCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
