package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/errs"
	"github.com/sat8bit/taiwa/llm"
	"github.com/sat8bit/taiwa/modifier"
	"github.com/sat8bit/taiwa/persona"
	"github.com/sat8bit/taiwa/transcript"
)

// scriptedClient replies from a fixed script and records every call.
type scriptedClient struct {
	replies  []string
	failAt   map[int]error // call index -> error to return
	calls    [][]llm.Message
	numCalls int
}

func (c *scriptedClient) Complete(_ context.Context, messages []llm.Message, _ persona.ModelConfig) (string, error) {
	idx := c.numCalls
	c.numCalls++
	c.calls = append(c.calls, messages)
	if err, ok := c.failAt[idx]; ok {
		return "", err
	}
	if idx < len(c.replies) {
		return c.replies[idx], nil
	}
	return fmt.Sprintf("reply %d", idx), nil
}

func testParticipant(t *testing.T, id, llmRole string, initiator bool) *persona.Participant {
	t.Helper()
	p, err := persona.NewParticipant(persona.Spec{
		ID:          id,
		LLMRole:     llmRole,
		IsInitiator: initiator,
		Card: &persona.Card{
			PersonaID:   id,
			DisplayName: strings.ToUpper(id[:1]) + id[1:],
			Prompt:      "You are " + id + ".",
			ModelConfig: persona.DefaultModelConfig(),
		},
	})
	require.NoError(t, err)
	return p
}

func testConfig(t *testing.T, client llm.Client) Config {
	t.Helper()
	return Config{
		Title:       "Test Conversation",
		Description: "two personas talking",
		Domain:      "general",
		Participants: []*persona.Participant{
			testParticipant(t, "alice", persona.LLMRoleAssistant, true),
			testParticipant(t, "bob", persona.LLMRoleUser, false),
		},
		InitiatorID: "alice",
		Scenario:    "A quiet afternoon.",
		Client:      client,
	}
}

func TestNewRejectsMissingInitiator(t *testing.T) {
	cfg := testConfig(t, &scriptedClient{})
	cfg.InitiatorID = "charlie"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestNewRejectsWrongParticipantCount(t *testing.T) {
	cfg := testConfig(t, &scriptedClient{})
	cfg.Participants = cfg.Participants[:1]

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestNewRejectsMissingClient(t *testing.T) {
	cfg := testConfig(t, nil)

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestRunProducesTwoExchangesPerTurn(t *testing.T) {
	client := &scriptedClient{}
	o, err := New(testConfig(t, client))
	require.NoError(t, err)

	conv := o.Run(context.Background(), 3)

	require.Len(t, conv.Records, 6)
	assert.Equal(t, 3, conv.NumTurns)
	assert.NotEmpty(t, conv.ID)

	wantTurns := []int{0, 0, 1, 1, 2, 2}
	wantIDs := []string{"alice", "bob", "alice", "bob", "alice", "bob"}
	for i, rec := range conv.Records {
		assert.Equal(t, wantTurns[i], rec.Turn, "record %d", i)
		assert.Equal(t, wantIDs[i], rec.ParticipantID, "record %d", i)
	}
	assert.Equal(t, persona.LLMRoleAssistant, conv.Records[0].Role)
	assert.Equal(t, persona.LLMRoleUser, conv.Records[1].Role)
}

func TestRunHistoryGrowsByOneEachExchange(t *testing.T) {
	client := &scriptedClient{}
	o, err := New(testConfig(t, client))
	require.NoError(t, err)

	o.Run(context.Background(), 2)

	require.Len(t, client.calls, 4)
	// First call: system prompt plus the initiation trigger. After that the
	// trigger disappears and each call carries system plus every prior record.
	assert.Len(t, client.calls[0], 2)
	assert.Equal(t, llm.RoleSystem, client.calls[0][0].Role)
	for i := 1; i < 4; i++ {
		assert.Len(t, client.calls[i], i+1, "call %d", i)
	}
}

func TestRunSubstitutesPlaceholderForBlankResponse(t *testing.T) {
	client := &scriptedClient{replies: []string{"hello", "   \n\t "}}
	o, err := New(testConfig(t, client))
	require.NoError(t, err)

	conv := o.Run(context.Background(), 1)

	require.Len(t, conv.Records, 2)
	assert.Equal(t, "hello", conv.Records[0].Content)
	assert.Equal(t, Placeholder, conv.Records[1].Content)
}

func TestRunContinuesPastProviderErrors(t *testing.T) {
	client := &scriptedClient{failAt: map[int]error{2: errors.New("rate limited")}}
	o, err := New(testConfig(t, client))
	require.NoError(t, err)

	conv := o.Run(context.Background(), 2)

	require.Len(t, conv.Records, 4)
	assert.Equal(t, "[Error generating response: rate limited]", conv.Records[2].Content)

	// The failed exchange stays in history for every later call.
	last := client.calls[3]
	var found bool
	for _, m := range last {
		if strings.Contains(m.Content, "[Error generating response: rate limited]") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRunDrawsModifiersOncePerConversation(t *testing.T) {
	pool, err := modifier.Parse([]byte(`
modifyingAdjectives:
  emotional_state:
    anxiety: ["mildly anxious", "anxious", "very anxious"]
    calmness: ["calm", "very calm"]
  communication_style:
    openness: ["guarded", "open", "very open"]
applicationRules:
  avoidContradictions:
    - ["calm", "anxious"]
`))
	require.NoError(t, err)

	alice, err := persona.NewParticipant(persona.Spec{
		ID:             "alice",
		LLMRole:        persona.LLMRoleAssistant,
		IsInitiator:    true,
		ApplyModifiers: true,
		Categories:     []string{"emotional_state", "communication_style"},
		Card:           &persona.Card{PersonaID: "alice", Prompt: "You are alice."},
	})
	require.NoError(t, err)

	cfg := testConfig(t, &scriptedClient{})
	cfg.Pool = pool
	cfg.Engine = modifier.NewSeededEngine(7)
	cfg.Level = modifier.CoherenceHigh
	cfg.Target = 2
	cfg.Participants[0] = alice

	o, err := New(cfg)
	require.NoError(t, err)
	conv := o.Run(context.Background(), 3)

	selected := conv.Modifiers["alice"]
	require.NotEmpty(t, selected)
	for _, rec := range conv.Records {
		if rec.ParticipantID != "alice" {
			assert.Empty(t, rec.Modifiers)
			continue
		}
		assert.Equal(t, selected, rec.Modifiers)
	}

	// The drawn modifiers are baked into the fixed system prompt.
	assert.Contains(t, conv.SystemPrompts["alice"], selected[0])
}

func TestRunStreamsEventsToBus(t *testing.T) {
	b := bus.NewMemoryBus()
	ch := b.Subscribe()

	cfg := testConfig(t, &scriptedClient{})
	cfg.Bus = b
	o, err := New(cfg)
	require.NoError(t, err)

	conv := o.Run(context.Background(), 2)
	b.Close()

	var exchanges, done int
	for e := range ch {
		assert.Equal(t, conv.ID, e.ConversationID)
		switch e.Kind {
		case transcript.KindExchange:
			exchanges++
			assert.NotNil(t, e.Record)
		case transcript.KindDone:
			done++
		}
	}
	assert.Equal(t, 4, exchanges)
	assert.Equal(t, 1, done)
}

func TestRunCapturesDebugExchanges(t *testing.T) {
	cfg := testConfig(t, &scriptedClient{})
	cfg.CaptureDebug = true
	o, err := New(cfg)
	require.NoError(t, err)

	conv := o.Run(context.Background(), 2)

	require.NotNil(t, conv.Debug)
	require.Len(t, conv.Debug.Exchanges, 4)
	for i, ex := range conv.Debug.Exchanges {
		assert.Equal(t, i, ex.HistoryLength, "exchange %d", i)
		assert.NotEmpty(t, ex.Messages)
		assert.NotEmpty(t, ex.Response)
	}
	assert.Equal(t, conv.SystemPrompts, conv.Debug.SystemPrompts)
}
