package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat8bit/taiwa/errs"
)

func TestLoadCardInlinePrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
personaCard:
  personaId: social_worker
  displayName: Dana Alvarez
  role: Experienced intake social worker
  prompt: |
    You are an experienced social services intake worker.
  modelConfig:
    modelName: gemini-2.5-flash
    temperature: 0.6
`), 0644))

	card, err := LoadCard(path)
	require.NoError(t, err)
	assert.Equal(t, "social_worker", card.PersonaID)
	assert.Equal(t, "Dana Alvarez", card.DisplayName)
	assert.Contains(t, card.Prompt, "intake worker")
	assert.Equal(t, "gemini-2.5-flash", card.ModelConfig.ModelName)
	assert.InDelta(t, 0.6, card.ModelConfig.Temperature, 1e-6)
	// unset parameters keep the defaults
	assert.Equal(t, 300, card.ModelConfig.MaxTokens)
	assert.InDelta(t, 0.9, card.ModelConfig.TopP, 1e-6)
}

func TestLoadCardExternalPromptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.txt"), []byte("You are a teenager in crisis."), 0644))
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
personaCard:
  personaId: simulated_client
  promptFile: ./client.txt
`), 0644))

	card, err := LoadCard(path)
	require.NoError(t, err)
	assert.Equal(t, "You are a teenager in crisis.", card.Prompt)
	assert.Equal(t, "simulated client", card.DisplayName, "display name derives from the id when unset")
}

func TestLoadCardFailsFast(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCard(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errs.IsConfig(err))

	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("someOtherKey: {}"), 0644))
	_, err = LoadCard(path)
	assert.True(t, errs.IsConfig(err))

	path = filepath.Join(dir, "noprompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("personaCard: {personaId: x}"), 0644))
	_, err = LoadCard(path)
	assert.True(t, errs.IsConfig(err))
}

func TestNewParticipantValidation(t *testing.T) {
	card := &Card{PersonaID: "client", DisplayName: "Jamela", Prompt: "p", ModelConfig: DefaultModelConfig()}

	p, err := NewParticipant(Spec{ID: "client", Card: card, IsInitiator: false, LLMRole: LLMRoleUser})
	require.NoError(t, err)
	assert.Equal(t, RoleResponder, p.ConversationRole)
	assert.Equal(t, "Jamela", p.DisplayName)

	p, err = NewParticipant(Spec{ID: "worker", Card: card, IsInitiator: true})
	require.NoError(t, err)
	assert.Equal(t, RoleInitiator, p.ConversationRole)
	assert.Equal(t, LLMRoleAssistant, p.LLMRole, "llmRole defaults to assistant")

	_, err = NewParticipant(Spec{Card: card})
	assert.True(t, errs.IsConfig(err))

	_, err = NewParticipant(Spec{ID: "worker"})
	assert.True(t, errs.IsConfig(err))

	_, err = NewParticipant(Spec{ID: "worker", Card: card, LLMRole: "narrator"})
	assert.True(t, errs.IsConfig(err))
}

func TestOppositeLLMRole(t *testing.T) {
	assert.Equal(t, LLMRoleUser, OppositeLLMRole(LLMRoleAssistant))
	assert.Equal(t, LLMRoleAssistant, OppositeLLMRole(LLMRoleUser))
}
