package persona

import (
	"fmt"

	"github.com/sat8bit/taiwa/errs"
)

// ConversationRole tags which side of the exchange a participant takes.
type ConversationRole string

const (
	RoleInitiator ConversationRole = "initiator"
	RoleResponder ConversationRole = "responder"
)

// LLM-facing roles a participant's own utterances take in its message view.
const (
	LLMRoleAssistant = "assistant"
	LLMRoleUser      = "user"
)

// Spec collects everything needed to construct a Participant: the persona
// card plus the per-conversation configuration around it.
type Spec struct {
	ID               string
	DisplayName      string // overrides the card's display name when set
	LLMRole          string
	ConversationRole ConversationRole // inferred from IsInitiator when empty
	IsInitiator      bool
	Behavior         string // custom per-participant behavior text
	ApplyModifiers   bool
	Categories       []string // requested modifier categories
	Card             *Card
}

// Participant is one side of a conversation. Constructed once per
// generation run and immutable afterwards; the initiator flag is computed
// here and never re-derived downstream.
type Participant struct {
	ID               string
	DisplayName      string
	LLMRole          string
	ConversationRole ConversationRole
	IsInitiator      bool
	PersonaText      string
	PersonaRole      string
	Behavior         string
	Model            ModelConfig
	ApplyModifiers   bool
	Categories       []string
}

// NewParticipant validates a Spec and builds the immutable Participant.
// Required fields fail fast with a ConfigError instead of surfacing at
// first use.
func NewParticipant(spec Spec) (*Participant, error) {
	if spec.ID == "" {
		return nil, errs.Config("participant", "missing participant id")
	}
	if spec.Card == nil {
		return nil, errs.Config(spec.ID, "participant has no persona card")
	}

	llmRole := spec.LLMRole
	if llmRole == "" {
		llmRole = LLMRoleAssistant
	}
	if llmRole != LLMRoleAssistant && llmRole != LLMRoleUser {
		return nil, errs.Config(spec.ID, fmt.Sprintf("invalid llmRole %q", llmRole))
	}

	role := spec.ConversationRole
	if role == "" {
		if spec.IsInitiator {
			role = RoleInitiator
		} else {
			role = RoleResponder
		}
	}

	display := spec.DisplayName
	if display == "" {
		display = spec.Card.DisplayName
	}

	return &Participant{
		ID:               spec.ID,
		DisplayName:      display,
		LLMRole:          llmRole,
		ConversationRole: role,
		IsInitiator:      spec.IsInitiator,
		PersonaText:      spec.Card.Prompt,
		PersonaRole:      spec.Card.Role,
		Behavior:         spec.Behavior,
		Model:            spec.Card.ModelConfig,
		ApplyModifiers:   spec.ApplyModifiers,
		Categories:       spec.Categories,
	}, nil
}

// OppositeLLMRole returns the counterpart of an LLM-facing role.
func OppositeLLMRole(role string) string {
	if role == LLMRoleAssistant {
		return LLMRoleUser
	}
	return LLMRoleAssistant
}
