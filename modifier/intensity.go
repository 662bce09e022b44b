package modifier

import "strings"

// Intensity is the ordinal strength a modifier string expresses.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityMedium   Intensity = "medium"
	IntensityHigh     Intensity = "high"
	IntensityVeryHigh Intensity = "very_high"
)

// intensityMarkers maps marker words to their level. The tokenizer is a
// heuristic: it works on whitespace-split words and can misclassify
// multi-word idioms that happen to contain a marker word.
var intensityMarkers = map[string]Intensity{
	"very":        IntensityHigh,
	"extremely":   IntensityVeryHigh,
	"completely":  IntensityVeryHigh,
	"intensely":   IntensityVeryHigh,
	"obsessively": IntensityVeryHigh,
	"mildly":      IntensityLow,
	"slightly":    IntensityLow,
	"somewhat":    IntensityLow,
	"moderately":  IntensityMedium,
	"moderate":    IntensityMedium,
}

var intensityScores = map[Intensity]int{
	IntensityLow:      1,
	IntensityMedium:   2,
	IntensityHigh:     3,
	IntensityVeryHigh: 4,
}

// IntensityOf returns the intensity level expressed by a modifier string.
// Unmarked modifiers default to medium.
func IntensityOf(modifier string) Intensity {
	for _, word := range strings.Fields(strings.ToLower(modifier)) {
		if level, ok := intensityMarkers[word]; ok {
			return level
		}
	}
	return IntensityMedium
}

// BaseTrait strips intensity-marker words from a modifier string, leaving
// the trait used for contradiction and complementary matching.
func BaseTrait(modifier string) string {
	words := strings.Fields(strings.ToLower(modifier))
	kept := words[:0]
	for _, word := range words {
		if _, ok := intensityMarkers[word]; !ok {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// intensityCoherent reports whether a set of modifiers stays within a
// two-point ordinal spread (no mixing of very mild with very extreme).
func intensityCoherent(modifiers []string) bool {
	if len(modifiers) <= 1 {
		return true
	}
	min, max := 0, 0
	for i, mod := range modifiers {
		score := intensityScores[IntensityOf(mod)]
		if i == 0 || score < min {
			min = score
		}
		if i == 0 || score > max {
			max = score
		}
	}
	return max-min <= 2
}
