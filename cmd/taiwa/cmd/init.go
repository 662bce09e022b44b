package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sat8bit/taiwa/configs"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a ready-to-run example card set into a directory",
	Long: `Init writes the embedded starter set (conversation card, two persona
cards, a vignette and the default modifier pool) into the given directory
so a first generation run only needs provider credentials.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		examples, err := fs.Sub(configs.Examples, "examples")
		if err != nil {
			return err
		}
		names, err := fs.Glob(examples, "*")
		if err != nil {
			return err
		}

		for _, name := range names {
			data, err := fs.ReadFile(examples, name)
			if err != nil {
				return err
			}
			if err := writeIfAbsent(filepath.Join(dir, name), data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(dir, name))
		}

		modifiersPath := filepath.Join(dir, "modifiers.yaml")
		if err := writeIfAbsent(modifiersPath, configs.Modifiers); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", modifiersPath)

		fmt.Fprintf(cmd.OutOrStdout(), "\nnext: TAIWA_PROJECT_ID=<gcp-project> taiwa generate --card %s\n",
			filepath.Join(dir, "conversation.yaml"))
		return nil
	},
}

// writeIfAbsent refuses to clobber files the user may have edited.
func writeIfAbsent(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
