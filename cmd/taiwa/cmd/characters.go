package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/vignette"
)

var charactersModel string

var charactersCmd = &cobra.Command{
	Use:   "characters <vignette>",
	Short: "Extract the main character of a vignette as structured JSON",
	Long: `Characters reads a vignette and asks the model for the narrative's
main character: name, age, gender, setting and support structure. Useful
for drafting persona cards from an existing vignette library.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		narrative, err := vignette.NewFileSource(args[0]).Load(ctx)
		if err != nil {
			return err
		}

		projectID := viper.GetString("project_id")
		if projectID == "" {
			return fmt.Errorf("set TAIWA_PROJECT_ID (or project_id in the config file)")
		}

		extractor, err := llm.NewExtractor(ctx, projectID, viper.GetString("location"), charactersModel)
		if err != nil {
			return err
		}

		character, err := extractor.Extract(ctx, narrative)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(character, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(charactersCmd)

	charactersCmd.Flags().StringVar(&charactersModel, "model", "gemini-2.5-flash-lite", "model used for extraction")
}
