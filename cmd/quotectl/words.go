package main

import (
	"fmt"

	"github.com/diewo77/go-quotations/internal/numeric"
	"github.com/diewo77/go-quotations/internal/words"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words <amount>",
	Short: "Print an amount in Indian rupee words",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, ok := numeric.Parse(args[0])
		if !ok {
			return fmt.Errorf("not a number: %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), words.AmountInWords(v))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wordsCmd)
}
