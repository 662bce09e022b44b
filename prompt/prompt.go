// Package prompt builds system prompts and per-participant message views.
// Everything here is a pure function of its inputs; all randomness lives in
// the modifier engine.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sat8bit/taiwa/persona"
)

const initiatorBehavior = "CONVERSATION BEHAVIOR:\n" +
	"You are beginning this interaction. Start the conversation naturally based on your role, " +
	"personality, and the current situation. Engage authentically according to your character."

const responderBehavior = "CONVERSATION BEHAVIOR:\n" +
	"You will be responding in this interaction. React naturally to what others say, " +
	"staying true to your character and the situation. Engage authentically based on your role."

// BuildSystemPrompt concatenates, in order: the scenario text, the persona
// base text, the role-behavior block, optional custom behavior, and a
// modifier-integration clause when modifiers are present.
func BuildSystemPrompt(p *persona.Participant, scenario string, modifiers []string) string {
	var b strings.Builder
	b.WriteString(scenario)
	b.WriteString("\n\n")
	b.WriteString(p.PersonaText)
	b.WriteString("\n\n")

	if p.IsInitiator {
		b.WriteString(initiatorBehavior)
	} else {
		b.WriteString(responderBehavior)
	}

	if p.Behavior != "" {
		b.WriteString("\n\nSPECIFIC GUIDANCE:\n")
		b.WriteString(p.Behavior)
	}

	if len(modifiers) > 0 {
		b.WriteString(fmt.Sprintf("\n\nCURRENT EMOTIONAL/BEHAVIORAL STATE:\n"+
			"You are currently experiencing these feelings and behavioral tendencies that influence "+
			"how you interact: %s. Let these naturally shape your responses "+
			"while staying true to your core personality.", strings.Join(modifiers, ", ")))
	}

	return b.String()
}
