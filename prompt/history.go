package prompt

import (
	"fmt"

	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/persona"
	"github.com/sat8bit/taiwa/transcript"
)

// InitiationContent is the synthetic user message that kicks off a
// conversation. It is the only message ever injected without a
// corresponding exchange record.
const InitiationContent = "Begin your interaction now, staying true to your character and the situation."

// BuildHistory reconstructs the message view a participant sees over a
// shared exchange log: one system message, then every exchange in order,
// speaker-prefixed, with the viewer's own utterances under its LLM role and
// everyone else's under the opposite role. When the log is empty and the
// viewer is the initiator, the initiation trigger is appended.
func BuildHistory(log []*transcript.Record, viewer *persona.Participant, systemPrompt string) []llm.Message {
	messages := make([]llm.Message, 0, len(log)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	viewerRole := llm.Role(viewer.LLMRole)
	otherRole := llm.Role(persona.OppositeLLMRole(viewer.LLMRole))

	for _, rec := range log {
		role := otherRole
		if rec.ParticipantID == viewer.ID {
			role = viewerRole
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: fmt.Sprintf("%s: %s", rec.DisplayName, rec.Content),
		})
	}

	if len(log) == 0 && viewer.IsInitiator {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: InitiationContent})
	}

	return messages
}
