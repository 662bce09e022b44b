package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() *Pool {
	return &Pool{
		Categories: map[string]Category{
			"emotional_state": {
				"anger":    {"mildly irritated", "very angry", "extremely furious"},
				"anxiety":  {"slightly anxious", "very anxious"},
				"calmness": {"somewhat calm", "very calm"},
			},
			"communication_style": {
				"openness": {"somewhat withdrawn", "very withdrawn", "very talkative"},
			},
		},
		Rules: Rules{
			AvoidContradictions:       [][]string{{"calm", "angry"}, {"calm", "agitated"}},
			ComplementaryCombinations: [][]string{{"anxious", "withdrawn"}},
			ContextualWeighting:       map[string][]string{"crisis_intervention": {"emotional_state"}},
		},
	}
}

func poolModifiers(p *Pool) map[string]bool {
	all := make(map[string]bool)
	for _, cat := range p.Categories {
		for _, spectrum := range cat {
			for _, mod := range spectrum {
				all[mod] = true
			}
		}
	}
	return all
}

func TestSelectHonorsTargetCount(t *testing.T) {
	pool := testPool()
	known := poolModifiers(pool)

	for seed := int64(0); seed < 25; seed++ {
		engine := NewSeededEngine(seed)
		sel := engine.Select(pool, []string{"emotional_state", "communication_style"}, "", CoherenceBalanced, 3)

		assert.LessOrEqual(t, len(sel.Modifiers), 3)
		assert.Empty(t, sel.UnknownCategories)
		seen := make(map[string]bool)
		for _, mod := range sel.Modifiers {
			assert.True(t, known[mod], "selected modifier %q is not in the pool", mod)
			assert.False(t, seen[mod], "duplicate modifier %q", mod)
			seen[mod] = true
		}
	}
}

func TestSelectShorterWhenPoolSmall(t *testing.T) {
	pool := &Pool{Categories: map[string]Category{
		"emotional_state": {"anger": {"very angry", "mildly irritated"}},
	}}
	engine := NewSeededEngine(1)
	sel := engine.Select(pool, []string{"emotional_state"}, "", CoherenceBalanced, 5)
	assert.LessOrEqual(t, len(sel.Modifiers), 2)
	assert.NotEmpty(t, sel.Modifiers)
}

func TestSelectReportsUnknownCategories(t *testing.T) {
	engine := NewSeededEngine(7)
	sel := engine.Select(testPool(), []string{"emotional_state", "astral_plane"}, "", CoherenceBalanced, 2)
	assert.Equal(t, []string{"astral_plane"}, sel.UnknownCategories)
	assert.NotEmpty(t, sel.Modifiers)
}

func TestSelectAllUnknownReturnsEmpty(t *testing.T) {
	engine := NewSeededEngine(7)
	sel := engine.Select(testPool(), []string{"astral_plane"}, "", CoherenceHigh, 3)
	assert.Empty(t, sel.Modifiers)
	assert.Equal(t, []string{"astral_plane"}, sel.UnknownCategories)

	sel = engine.Select(testPool(), nil, "", CoherenceHigh, 3)
	assert.Empty(t, sel.Modifiers)
}

func TestSelectHighAvoidsContradictionsWhenAlternativeExists(t *testing.T) {
	pool := testPool()
	// The pool has plenty of contradiction-free combinations, so the
	// best-scored candidate under high coherence must never pair a calm
	// base with an angry base.
	for seed := int64(0); seed < 50; seed++ {
		engine := NewSeededEngine(seed)
		sel := engine.Select(pool, []string{"emotional_state", "communication_style"}, "", CoherenceHigh, 3)
		valid, conflicts := checkContradictions(pool.Rules, sel.Modifiers)
		assert.True(t, valid, "seed %d selected conflicting pairs %v", seed, conflicts)
	}
}

func TestSelectLowChecksRunningContradictions(t *testing.T) {
	pool := testPool()
	for seed := int64(0); seed < 50; seed++ {
		engine := NewSeededEngine(seed)
		sel := engine.Select(pool, []string{"emotional_state"}, "", CoherenceLow, 4)
		valid, _ := checkContradictions(pool.Rules, sel.Modifiers)
		assert.True(t, valid, "seed %d", seed)
	}
}

func TestContextWeightingTriplicatesPreferredCategories(t *testing.T) {
	pool := testPool()
	dp := newDrawPool(pool.Categories, pool.Rules.ContextualWeighting["crisis_intervention"])

	counts := make(map[string]int)
	for _, key := range dp.keys {
		counts[key]++
	}
	assert.Equal(t, 3, counts["emotional_state"])
	assert.Equal(t, 1, counts["communication_style"])
}

func TestComplementarySeedPairsTraits(t *testing.T) {
	pool := testPool()
	dp := newDrawPool(pool.Categories, nil)
	engine := NewSeededEngine(3)

	seed := engine.complementarySeed(dp, pool.Rules)
	require.Len(t, seed, 2)

	bases := map[string]bool{}
	for _, mod := range seed {
		bases[BaseTrait(mod)] = true
	}
	assert.True(t, bases["anxious"])
	assert.True(t, bases["withdrawn"])
}

func TestCheckContradictionsMatchesBaseTraitExactly(t *testing.T) {
	rules := Rules{AvoidContradictions: [][]string{{"calm", "angry"}}}

	valid, conflicts := checkContradictions(rules, []string{"somewhat calm", "very angry"})
	assert.False(t, valid)
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"somewhat calm", "very angry"}, conflicts[0])

	// "calmly detached" has base trait "calmly detached", not "calm":
	// exact base-trait match, never substring.
	valid, _ = checkContradictions(rules, []string{"calmly detached", "very angry"})
	assert.True(t, valid)
}
