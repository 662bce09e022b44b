package llm

import (
	"context"

	"github.com/sat8bit/taiwa/persona"
)

// Role is the LLM-facing role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one chat message of a completion request.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Client is the completion capability the orchestrator depends on. Errors
// are recoverable at the exchange level; the caller substitutes an inline
// marker and continues the conversation.
type Client interface {
	// Complete generates text for the given message history.
	Complete(ctx context.Context, messages []Message, cfg persona.ModelConfig) (string, error)
}
