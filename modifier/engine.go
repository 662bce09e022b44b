package modifier

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// CoherenceLevel controls how strictly selection enforces contradiction
// avoidance and intensity matching.
type CoherenceLevel string

const (
	CoherenceLow      CoherenceLevel = "low"
	CoherenceBalanced CoherenceLevel = "balanced"
	CoherenceHigh     CoherenceLevel = "high"
)

const (
	balancedAttempts = 50
	highAttempts     = 100

	// complementarySeedProbability is the chance a candidate is seeded
	// from a known complementary pair before random fill.
	complementarySeedProbability = 0.4

	// contextWeight is how many times a context-preferred category is
	// repeated in the random-draw pool.
	contextWeight = 3
)

// Selection is the outcome of one modifier draw.
type Selection struct {
	// Modifiers is the selected list, at most the requested target count.
	Modifiers []string
	// UnknownCategories lists requested categories absent from the pool,
	// reported for visibility. Unknown categories are never fatal.
	UnknownCategories []string
}

// Engine draws coherent modifier combinations from a Pool. It owns the only
// randomness in the generation pipeline and is safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an Engine seeded from the current time.
func NewEngine() *Engine {
	return NewSeededEngine(time.Now().UnixNano())
}

// NewSeededEngine creates an Engine with a fixed seed, for reproducible draws.
func NewSeededEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// Select draws up to targetCount modifiers from the requested categories.
// contextType, when present in the pool's weighting table, triples the draw
// probability of the preferred categories without excluding the others.
// A perfect combination is never required: the best-scored candidate found
// within the attempt budget is returned.
func (e *Engine) Select(pool *Pool, categories []string, contextType string, level CoherenceLevel, targetCount int) Selection {
	e.mu.Lock()
	defer e.mu.Unlock()

	var sel Selection
	available := make(map[string]Category, len(categories))
	for _, name := range categories {
		if cat, ok := pool.Categories[name]; ok {
			if _, dup := available[name]; !dup {
				available[name] = cat
			}
		} else {
			sel.UnknownCategories = append(sel.UnknownCategories, name)
		}
	}
	if len(available) == 0 || targetCount <= 0 {
		return sel
	}

	dp := newDrawPool(available, pool.Rules.ContextualWeighting[contextType])

	switch level {
	case CoherenceLow:
		sel.Modifiers = e.selectSimple(dp, pool.Rules, targetCount)
	case CoherenceHigh:
		sel.Modifiers = e.selectCoherent(dp, pool.Rules, targetCount, highAttempts)
	default:
		sel.Modifiers = e.selectCoherent(dp, pool.Rules, targetCount, balancedAttempts)
	}
	return sel
}

// drawPool is a deterministic view over the requested categories: sorted
// spectrum names and a weighted key list for random category draws.
type drawPool struct {
	categories map[string]Category
	spectra    map[string][]string
	keys       []string
	distinct   int
}

func newDrawPool(available map[string]Category, preferred []string) *drawPool {
	dp := &drawPool{
		categories: available,
		spectra:    make(map[string][]string, len(available)),
	}
	preferredSet := make(map[string]bool, len(preferred))
	for _, name := range preferred {
		preferredSet[name] = true
	}

	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	for _, name := range names {
		weight := 1
		if preferredSet[name] {
			weight = contextWeight
		}
		for i := 0; i < weight; i++ {
			dp.keys = append(dp.keys, name)
		}

		cat := available[name]
		spectrumNames := make([]string, 0, len(cat))
		for spectrumName, spectrum := range cat {
			spectrumNames = append(spectrumNames, spectrumName)
			for _, mod := range spectrum {
				if !seen[mod] {
					seen[mod] = true
					dp.distinct++
				}
			}
		}
		sort.Strings(spectrumNames)
		dp.spectra[name] = spectrumNames
	}
	return dp
}

// categoryOf finds the category a modifier belongs to, or "" if none.
func (dp *drawPool) categoryOf(modifier string) string {
	for _, name := range dp.keysUnique() {
		for _, spectrumName := range dp.spectra[name] {
			for _, mod := range dp.categories[name][spectrumName] {
				if mod == modifier {
					return name
				}
			}
		}
	}
	return ""
}

func (dp *drawPool) keysUnique() []string {
	names := make([]string, 0, len(dp.categories))
	for name := range dp.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// selectSimple is the low-coherence path: random draws with only a running
// contradiction check, no intensity requirement.
func (e *Engine) selectSimple(dp *drawPool, rules Rules, target int) []string {
	var selected []string
	for attempt := 0; attempt < target*3 && len(selected) < target; attempt++ {
		candidate, ok := e.drawOne(dp, selected)
		if !ok {
			continue
		}
		trial := append(append([]string(nil), selected...), candidate)
		if valid, _ := checkContradictions(rules, trial); valid {
			selected = trial
		}
	}
	return selected
}

// selectCoherent generates full candidate sets and keeps the best-scored one.
// Scoring: +10 contradiction-free, +5 intensity-coherent, +2 per distinct
// category. Stops early on a candidate that is contradiction-free,
// intensity-coherent and spans at least two categories.
func (e *Engine) selectCoherent(dp *drawPool, rules Rules, target, maxAttempts int) []string {
	var best []string
	bestScore := -1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var selected []string

		if e.rng.Float64() < complementarySeedProbability {
			seed := e.complementarySeed(dp, rules)
			if len(seed) > target {
				seed = seed[:target]
			}
			selected = append(selected, seed...)
		}
		e.fill(dp, &selected, target)

		valid, _ := checkContradictions(rules, selected)
		coherent := intensityCoherent(selected)
		diversity := countCategories(dp, selected)

		score := 0
		if valid {
			score += 10
		}
		if coherent {
			score += 5
		}
		score += diversity * 2

		if score > bestScore {
			bestScore = score
			best = append([]string(nil), selected...)
		}
		if valid && coherent && diversity >= 2 {
			break
		}
	}

	if len(best) > target {
		best = best[:target]
	}
	return best
}

// complementarySeed appends one randomly-intensity-selected modifier per
// trait of each complementary pair whose both traits exist among the
// available modifiers, capped at two pairs.
func (e *Engine) complementarySeed(dp *drawPool, rules Rules) []string {
	if len(rules.ComplementaryCombinations) == 0 {
		return nil
	}

	byBase := make(map[string][]string)
	for _, name := range dp.keysUnique() {
		for _, spectrumName := range dp.spectra[name] {
			for _, mod := range dp.categories[name][spectrumName] {
				byBase[BaseTrait(mod)] = append(byBase[BaseTrait(mod)], mod)
			}
		}
	}

	var seed []string
	for _, pair := range rules.ComplementaryCombinations {
		first, second := BaseTrait(pair[0]), BaseTrait(pair[1])
		if len(byBase[first]) == 0 || len(byBase[second]) == 0 {
			continue
		}
		for _, base := range []string{first, second} {
			options := byBase[base]
			pick := options[e.rng.Intn(len(options))]
			if !contains(seed, pick) {
				seed = append(seed, pick)
			}
		}
		if len(seed) >= 4 { // two pairs at most
			break
		}
	}
	return seed
}

// fill draws uniformly random (category, spectrum, modifier) triples until
// the target count is reached or the pool is exhausted.
func (e *Engine) fill(dp *drawPool, selected *[]string, target int) {
	misses := 0
	for len(*selected) < target && len(*selected) < dp.distinct {
		candidate, ok := e.drawOne(dp, *selected)
		if !ok {
			misses++
			if misses > 10*target {
				return
			}
			continue
		}
		*selected = append(*selected, candidate)
	}
}

// drawOne picks a random (category, spectrum) and returns a modifier not
// already selected, or false if that spectrum is exhausted.
func (e *Engine) drawOne(dp *drawPool, selected []string) (string, bool) {
	name := dp.keys[e.rng.Intn(len(dp.keys))]
	spectrumNames := dp.spectra[name]
	spectrum := dp.categories[name][spectrumNames[e.rng.Intn(len(spectrumNames))]]

	candidates := make([]string, 0, len(spectrum))
	for _, mod := range spectrum {
		if !contains(selected, mod) {
			candidates = append(candidates, mod)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[e.rng.Intn(len(candidates))], true
}

// checkContradictions reports whether the selection is free of known
// contradiction pairs, and returns the conflicting modifier pairs found.
// Matching is by exact base trait, never substring.
func checkContradictions(rules Rules, selected []string) (bool, [][]string) {
	if len(rules.AvoidContradictions) == 0 {
		return true, nil
	}

	byBase := make(map[string]string, len(selected))
	for _, mod := range selected {
		byBase[BaseTrait(mod)] = mod
	}

	var conflicts [][]string
	for _, pair := range rules.AvoidContradictions {
		first, ok1 := byBase[BaseTrait(pair[0])]
		second, ok2 := byBase[BaseTrait(pair[1])]
		if ok1 && ok2 {
			conflicts = append(conflicts, []string{first, second})
		}
	}
	return len(conflicts) == 0, conflicts
}

func countCategories(dp *drawPool, selected []string) int {
	seen := make(map[string]bool)
	for _, mod := range selected {
		if name := dp.categoryOf(mod); name != "" {
			seen[name] = true
		}
	}
	return len(seen)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
