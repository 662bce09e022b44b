package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sat8bit/taiwa/persona"
)

func testParticipant(id string, initiator bool) *persona.Participant {
	return &persona.Participant{
		ID:          id,
		DisplayName: strings.ToUpper(id),
		LLMRole:     persona.LLMRoleAssistant,
		IsInitiator: initiator,
		PersonaText: "You are " + id + ".",
	}
}

func TestBuildSystemPromptOrdering(t *testing.T) {
	p := testParticipant("worker", true)
	p.Behavior = "Ask open questions."
	got := BuildSystemPrompt(p, "A quiet intake office.", []string{"very anxious", "somewhat withdrawn"})

	scenarioIdx := strings.Index(got, "A quiet intake office.")
	personaIdx := strings.Index(got, "You are worker.")
	behaviorIdx := strings.Index(got, "CONVERSATION BEHAVIOR:")
	guidanceIdx := strings.Index(got, "SPECIFIC GUIDANCE:\nAsk open questions.")
	modifierIdx := strings.Index(got, "CURRENT EMOTIONAL/BEHAVIORAL STATE:")

	assert.True(t, scenarioIdx >= 0 && scenarioIdx < personaIdx)
	assert.True(t, personaIdx < behaviorIdx)
	assert.True(t, behaviorIdx < guidanceIdx)
	assert.True(t, guidanceIdx < modifierIdx)
	assert.Contains(t, got, "very anxious, somewhat withdrawn")
	assert.Contains(t, got, "naturally shape your responses")
}

func TestBuildSystemPromptRoleVariants(t *testing.T) {
	initiator := BuildSystemPrompt(testParticipant("a", true), "s", nil)
	responder := BuildSystemPrompt(testParticipant("b", false), "s", nil)

	assert.Contains(t, initiator, "You are beginning this interaction.")
	assert.Contains(t, responder, "You will be responding in this interaction.")
	assert.NotContains(t, initiator, "CURRENT EMOTIONAL/BEHAVIORAL STATE:")
	assert.NotContains(t, responder, "SPECIFIC GUIDANCE:")
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	p := testParticipant("worker", false)
	mods := []string{"very anxious"}
	assert.Equal(t, BuildSystemPrompt(p, "s", mods), BuildSystemPrompt(p, "s", mods))
}
