// Package transcript holds the data produced by conversation generation:
// exchange records, completed conversations and the events streamed to
// renderers while generation runs.
package transcript

import (
	"time"

	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/persona"
)

// Record is one utterance: a single exchange generated by one participant.
// Two records (question, then answer) form one conversational turn.
type Record struct {
	Turn          int      `json:"turn" yaml:"turn"`
	ParticipantID string   `json:"participant_id" yaml:"participantId"`
	DisplayName   string   `json:"name" yaml:"displayName"`
	Role          string   `json:"role" yaml:"role"`
	Content       string   `json:"content" yaml:"content"`
	Modifiers     []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// Conversation is the completed result of one generation run: the ordered
// exchange log plus the system prompts and modifier selection that stayed
// fixed for its whole lifetime.
type Conversation struct {
	ID            string
	Title         string
	Description   string
	Domain        string
	CreatedAt     time.Time
	NumTurns      int
	Records       []*Record
	SystemPrompts map[string]string
	Modifiers     map[string][]string
	Participants  []*persona.Participant
	Debug         *Debug
}

// Debug is the optional capture bundle written beside a transcript: the
// modifier draw, the fixed system prompts and per-exchange snapshots of
// what was sent to the provider.
type Debug struct {
	Modifiers     map[string][]string `yaml:"modifiers"`
	SystemPrompts map[string]string   `yaml:"systemPrompts"`
	Exchanges     []*DebugExchange    `yaml:"exchanges"`
}

// DebugExchange snapshots one provider call.
type DebugExchange struct {
	Turn          int           `yaml:"turn"`
	Part          int           `yaml:"part"`
	ParticipantID string        `yaml:"participantId"`
	IsInitiator   bool          `yaml:"isInitiator"`
	HistoryLength int           `yaml:"historyLength"`
	Messages      []llm.Message `yaml:"messages"`
	Response      string        `yaml:"response"`
	At            time.Time     `yaml:"at"`
}

// Kind classifies a streamed event.
type Kind string

const (
	KindSystem   Kind = "system"
	KindExchange Kind = "exchange"
	KindError    Kind = "error"
	KindLog      Kind = "log"
	KindDone     Kind = "done"
)

// Event is one item streamed over the bus while conversations generate.
type Event struct {
	Kind           Kind
	ConversationID string
	Record         *Record // set for KindExchange
	Text           string  // set for system, error and log events
	At             time.Time
}
