package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sat8bit/taiwa/modifier"
)

var (
	modifiersFile    string
	modifierCategory string
	drawCount        int
	drawCategories   []string
	drawContext      string
	drawCoherence    string
	checkCombination []string
)

var modifiersCmd = &cobra.Command{
	Use:   "modifiers",
	Short: "Inspect a modifier pool",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var pool *modifier.Pool
		var err error
		if modifiersFile != "" {
			pool, err = modifier.NewLoader().Load(modifiersFile)
		} else {
			pool, err = modifier.DefaultPool()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if len(checkCombination) > 0 {
			report := modifier.Validate(pool, checkCombination)
			data, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			if !report.IsValid {
				return fmt.Errorf("combination is not valid")
			}
			return nil
		}

		if drawCount > 0 {
			categories := drawCategories
			if len(categories) == 0 {
				categories = pool.CategoryNames()
			}
			engine := modifier.NewEngine()
			sel := engine.Select(pool, categories, drawContext, modifier.CoherenceLevel(drawCoherence), drawCount)
			for _, unknown := range sel.UnknownCategories {
				fmt.Fprintf(out, "warning: unknown category %q\n", unknown)
			}
			for _, mod := range sel.Modifiers {
				fmt.Fprintln(out, mod)
			}
			return nil
		}

		if modifierCategory != "" {
			info, ok := pool.Info(modifierCategory)
			if !ok {
				return fmt.Errorf("unknown category %q (available: %s)", modifierCategory, strings.Join(pool.CategoryNames(), ", "))
			}
			fmt.Fprintf(out, "%s: %d spectra, %d modifiers\n", modifierCategory, info.SpectraCount, info.TotalModifiers)
			for _, name := range info.SpectrumNames {
				fmt.Fprintf(out, "  %s (%d)\n", name, info.ModifiersPerSpectrum[name])
			}
			return nil
		}

		for _, name := range pool.CategoryNames() {
			info, _ := pool.Info(name)
			fmt.Fprintf(out, "%s: %d spectra, %d modifiers\n", name, info.SpectraCount, info.TotalModifiers)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modifiersCmd)

	modifiersCmd.Flags().StringVar(&modifiersFile, "file", "", "modifier pool file (default: built-in pool)")
	modifiersCmd.Flags().StringVar(&modifierCategory, "category", "", "show details for one category")
	modifiersCmd.Flags().IntVar(&drawCount, "draw", 0, "sample a draw of this many modifiers")
	modifiersCmd.Flags().StringSliceVar(&drawCategories, "categories", nil, "categories to draw from (default: all)")
	modifiersCmd.Flags().StringVar(&drawContext, "context", "", "context type for category weighting")
	modifiersCmd.Flags().StringVar(&drawCoherence, "coherence", string(modifier.CoherenceBalanced), "coherence level for draws")
	modifiersCmd.Flags().StringSliceVar(&checkCombination, "check", nil, "validate a hand-picked modifier combination")
}
