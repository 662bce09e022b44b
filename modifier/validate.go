package modifier

import "sort"

// Report is the outcome of validating a modifier combination. Validation
// never blocks generation; callers log the findings and continue.
type Report struct {
	IsValid               bool        `json:"is_valid" yaml:"isValid"`
	HasContradictions     bool        `json:"has_contradictions" yaml:"hasContradictions"`
	ConflictingPairs      [][]string  `json:"conflicting_pairs" yaml:"conflictingPairs"`
	IntensityCoherent     bool        `json:"intensity_coherent" yaml:"intensityCoherent"`
	IntensityLevels       []Intensity `json:"intensity_levels" yaml:"intensityLevels"`
	CategoryDiversity     int         `json:"category_diversity" yaml:"categoryDiversity"`
	RepresentedCategories []string    `json:"represented_categories" yaml:"representedCategories"`
	Suggestions           []string    `json:"suggestions" yaml:"suggestions"`
}

// Validate checks a modifier combination against the pool's contradiction
// rules, intensity coherence and category diversity, and collects
// improvement suggestions.
func Validate(pool *Pool, modifiers []string) *Report {
	valid, conflicts := checkContradictions(pool.Rules, modifiers)
	coherent := intensityCoherent(modifiers)

	levels := make([]Intensity, 0, len(modifiers))
	for _, mod := range modifiers {
		levels = append(levels, IntensityOf(mod))
	}

	represented := representedCategories(pool, modifiers)

	report := &Report{
		IsValid:               valid && coherent,
		HasContradictions:     !valid,
		IntensityCoherent:     coherent,
		IntensityLevels:       levels,
		CategoryDiversity:     len(represented),
		RepresentedCategories: represented,
	}
	if !valid {
		report.ConflictingPairs = conflicts
	}
	report.Suggestions = suggestions(modifiers, valid, coherent, len(represented))
	return report
}

func representedCategories(pool *Pool, modifiers []string) []string {
	seen := make(map[string]bool)
	for _, mod := range modifiers {
		for name, cat := range pool.Categories {
			if seen[name] {
				continue
			}
			for _, spectrum := range cat {
				if contains(spectrum, mod) {
					seen[name] = true
					break
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func suggestions(modifiers []string, valid, coherent bool, diversity int) []string {
	var out []string
	if !valid {
		out = append(out, "Remove contradictory modifiers or replace with compatible alternatives")
	}
	if !coherent {
		out = append(out, "Balance intensity levels - avoid mixing very mild with very extreme traits")
	}
	if diversity < 2 {
		out = append(out, "Add modifiers from different categories for more diverse personality")
	}
	if len(modifiers) < 2 {
		out = append(out, "Consider adding more modifiers for richer personality depth")
	} else if len(modifiers) > 5 {
		out = append(out, "Consider reducing number of modifiers to avoid overwhelming personality")
	}
	return out
}
