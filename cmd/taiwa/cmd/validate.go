package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sat8bit/taiwa/card"
)

var validateCmd = &cobra.Command{
	Use:   "validate <conversation-card>",
	Short: "Validate a conversation card and everything it references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report := card.Validate(args[0])
		for _, line := range report.Lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		if !report.OK {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
