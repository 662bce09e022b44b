// Package persona defines the persona cards and conversation participants
// the generator builds dialogues from.
package persona

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sat8bit/taiwa/errs"
)

// ModelConfig carries the generation parameters for one participant's
// completion calls.
type ModelConfig struct {
	ModelName        string  `yaml:"modelName" json:"model_name"`
	Temperature      float32 `yaml:"temperature" json:"temperature"`
	MaxTokens        int     `yaml:"maxTokens" json:"max_tokens"`
	TopP             float32 `yaml:"topP" json:"top_p"`
	FrequencyPenalty float32 `yaml:"frequencyPenalty" json:"frequency_penalty"`
	PresencePenalty  float32 `yaml:"presencePenalty" json:"presence_penalty"`
}

// DefaultModelConfig returns the generation parameters used when a persona
// card leaves them unset.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		ModelName:   "gemini-2.5-flash-lite",
		Temperature: 0.8,
		MaxTokens:   300,
		TopP:        0.9,
	}
}

// Card is one persona definition loaded from YAML. The prompt may be inline
// or referenced through promptFile, resolved relative to the card's directory.
type Card struct {
	PersonaID   string      `yaml:"personaId"`
	DisplayName string      `yaml:"displayName"`
	Role        string      `yaml:"role"`
	Prompt      string      `yaml:"prompt"`
	PromptFile  string      `yaml:"promptFile"`
	ModelConfig ModelConfig `yaml:"modelConfig"`
}

// LoadCard reads and validates a persona card, resolving any external
// prompt file. Missing required structure fails with a ConfigError.
func LoadCard(path string) (*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ConfigWrap(path, "cannot read persona card", err)
	}

	wrapper := struct {
		PersonaCard *Card `yaml:"personaCard"`
	}{PersonaCard: &Card{ModelConfig: DefaultModelConfig()}}

	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, errs.ConfigWrap(path, "malformed persona card", err)
	}
	card := wrapper.PersonaCard
	if card == nil || card.PersonaID == "" {
		return nil, errs.Config(path, "missing required personaCard structure")
	}

	if card.PromptFile != "" {
		promptPath := card.PromptFile
		if !filepath.IsAbs(promptPath) {
			promptPath = filepath.Join(filepath.Dir(path), promptPath)
		}
		prompt, err := os.ReadFile(promptPath)
		if err != nil {
			return nil, errs.ConfigWrap(path, "cannot read prompt file "+card.PromptFile, err)
		}
		card.Prompt = string(prompt)
	}
	if strings.TrimSpace(card.Prompt) == "" {
		return nil, errs.Config(path, "persona card has no prompt content")
	}

	if card.DisplayName == "" {
		card.DisplayName = strings.ReplaceAll(card.PersonaID, "_", " ")
	}
	return card, nil
}
