package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quotectl",
	Short: "Drive bulk quotations from the command line",
	Long: `quotectl replays YAML event scripts against the quotation engine and
writes the resulting documents.

Example Usage:
  quotectl run script.yaml --out ./out --pdf --xlsx
  quotectl words 125000.50`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
