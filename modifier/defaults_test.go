package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPool(t *testing.T) {
	pool, err := DefaultPool()
	require.NoError(t, err)

	names := pool.CategoryNames()
	assert.Contains(t, names, "emotional_state")
	assert.Contains(t, names, "communication_style")
	assert.Contains(t, names, "cognitive_state")
	assert.Contains(t, names, "social_behavior")

	assert.NotEmpty(t, pool.Rules.AvoidContradictions)
	assert.NotEmpty(t, pool.Rules.ComplementaryCombinations)
	assert.Contains(t, pool.Rules.ContextualWeighting, "crisis_intervention")
}

func TestDefaultPoolSelectionIsCoherent(t *testing.T) {
	pool, err := DefaultPool()
	require.NoError(t, err)

	for seed := int64(0); seed < 20; seed++ {
		engine := NewSeededEngine(seed)
		sel := engine.Select(pool, pool.CategoryNames(), "crisis_intervention", CoherenceHigh, 3)
		require.NotEmpty(t, sel.Modifiers)

		ok, pairs := checkContradictions(pool.Rules, sel.Modifiers)
		assert.True(t, ok, "seed %d produced contradictions: %v", seed, pairs)
	}
}
