// Command iris-mpc-cli is a small operator tool for exercising the engine
// outside of a full deployment: simulate runs one 3-party match end to end
// over an in-memory transport, and ingest decrypts and validates a single
// sealed-box iris-share bundle.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iris-mpc-cli",
	Short: "Demo and operator tooling for the iris uniqueness MPC engine",
}

func main() {
	rootCmd.AddCommand(simulateCmd, ingestCmd, keygenCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
