package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sat8bit/taiwa/renderer"
)

var (
	extractFormat string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract <conversation.json>",
	Short: "Extract clean dialog from a generated conversation file",
	Long: `Extract strips technical metadata from a generated conversation and
prints it as reviewer-facing dialog. Formats: standard, clinical,
screenplay.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := renderer.LoadDocument(args[0])
		if err != nil {
			return err
		}

		dialog, err := doc.Dialog(renderer.DialogFormat(extractFormat))
		if err != nil {
			return err
		}

		if extractOutput != "" {
			if err := os.WriteFile(extractOutput, []byte(dialog+"\n"), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", extractOutput, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted dialog saved to %s\n", extractOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), dialog)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractFormat, "format", string(renderer.FormatStandard), "dialog format: standard, clinical or screenplay")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write dialog to file instead of stdout")
}
