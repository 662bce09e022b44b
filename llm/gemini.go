package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sat8bit/taiwa/persona"
)

// NewGemini creates a Vertex AI backed client.
func NewGemini(ctx context.Context, projectID, location string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm.NewGemini: %w", err)
	}
	return &Gemini{client: client}, nil
}

type Gemini struct {
	client *genai.Client
}

// Complete sends the message history to the model named in cfg. The leading
// system message becomes the system instruction; assistant messages map to
// the model role and user messages to the user role.
func (g *Gemini) Complete(ctx context.Context, messages []Message, cfg persona.ModelConfig) (string, error) {
	var system string
	var contents []*genai.Content
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = msg.Content
			continue
		}
		role := genai.RoleUser
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	temperature := cfg.Temperature
	topP := cfg.TopP
	frequencyPenalty := cfg.FrequencyPenalty
	presencePenalty := cfg.PresencePenalty
	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		TopP:             &topP,
		FrequencyPenalty: &frequencyPenalty,
		PresencePenalty:  &presencePenalty,
		MaxOutputTokens:  int32(cfg.MaxTokens),
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, cfg.ModelName, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("llm.Gemini.Complete: %w", err)
	}
	return strings.TrimSpace(extractText(resp)), nil
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 {
		return ""
	}
	for _, c := range res.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

var _ Client = (*Gemini)(nil)
