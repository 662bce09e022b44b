package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/persona"
	"github.com/sat8bit/taiwa/transcript"
)

func record(turn int, id, name, content string) *transcript.Record {
	return &transcript.Record{Turn: turn, ParticipantID: id, DisplayName: name, Content: content}
}

func TestBuildHistoryEmptyLogInitiator(t *testing.T) {
	viewer := testParticipant("worker", true)
	got := BuildHistory(nil, viewer, "SYSTEM")

	require.Len(t, got, 2)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "SYSTEM"}, got[0])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: InitiationContent}, got[1])
}

func TestBuildHistoryEmptyLogResponder(t *testing.T) {
	viewer := testParticipant("client", false)
	got := BuildHistory(nil, viewer, "SYSTEM")

	require.Len(t, got, 1, "only the initiator receives the initiation trigger")
	assert.Equal(t, llm.RoleSystem, got[0].Role)
}

func TestBuildHistoryRoleAlternation(t *testing.T) {
	log := []*transcript.Record{
		record(0, "worker", "Dana", "Hello."),
		record(0, "client", "Jamela", "Hi."),
		record(1, "worker", "Dana", "How are you?"),
	}

	viewer := testParticipant("worker", true)
	got := BuildHistory(log, viewer, "SYSTEM")
	require.Len(t, got, 4, "1 system + L exchanges")

	// A message carries the viewer's role iff the viewer spoke it.
	assert.Equal(t, llm.RoleAssistant, got[1].Role)
	assert.Equal(t, llm.RoleUser, got[2].Role)
	assert.Equal(t, llm.RoleAssistant, got[3].Role)
	assert.Equal(t, "Dana: Hello.", got[1].Content)
	assert.Equal(t, "Jamela: Hi.", got[2].Content)

	other := testParticipant("client", false)
	other.LLMRole = persona.LLMRoleUser
	got = BuildHistory(log, other, "SYSTEM")
	require.Len(t, got, 4)
	assert.Equal(t, llm.RoleAssistant, got[1].Role, "non-viewer messages take the opposite of the viewer's role")
	assert.Equal(t, llm.RoleUser, got[2].Role)
	assert.Equal(t, llm.RoleAssistant, got[3].Role)
}

func TestBuildHistoryNoTriggerOnNonEmptyLog(t *testing.T) {
	log := []*transcript.Record{record(0, "worker", "Dana", "Hello.")}
	viewer := testParticipant("worker", true)
	got := BuildHistory(log, viewer, "SYSTEM")

	require.Len(t, got, 2)
	for _, msg := range got {
		assert.NotEqual(t, InitiationContent, msg.Content)
	}
}
