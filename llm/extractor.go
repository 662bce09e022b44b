package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"google.golang.org/genai"
)

// MainCharacter is the structured record extracted from a vignette
// narrative. Unknown fields come back as the literal string "unknown".
type MainCharacter struct {
	Name             string `json:"name"`
	Age              string `json:"age"`
	Gender           string `json:"gender"`
	Ethnicity        string `json:"ethnicity"`
	NarrativeSetting string `json:"narrative_setting"`
	SupportStructure string `json:"support_structure"`
}

const extractorSystemPrompt = `Identify the main character from the narrative provided by the user.
Provide the following information about the main character: name, age, gender, ethnicity, narrative setting, support structure. If you can't find this information answer "unknown".
Support structure is any family, church or school friends that can help this person.
Narrative setting is the place where the narrative is taking place, like a home, an emergency shelter or a hospital.`

// Extractor pulls a MainCharacter out of narrative text using structured
// output, retrying transient failures with jittered exponential backoff.
type Extractor struct {
	client      *genai.Client
	model       string
	maxAttempts int
	baseDelay   time.Duration
}

// NewExtractor creates a Vertex AI backed Extractor for the given model.
func NewExtractor(ctx context.Context, projectID, location, model string) (*Extractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm.NewExtractor: %w", err)
	}
	return &Extractor{
		client:      client,
		model:       model,
		maxAttempts: 3,
		baseDelay:   time.Second,
	}, nil
}

var mainCharacterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":              {Type: genai.TypeString},
		"age":               {Type: genai.TypeString},
		"gender":            {Type: genai.TypeString},
		"ethnicity":         {Type: genai.TypeString},
		"narrative_setting": {Type: genai.TypeString},
		"support_structure": {Type: genai.TypeString},
	},
	Required: []string{"name", "age", "gender", "ethnicity", "narrative_setting", "support_structure"},
}

// Extract identifies the main character of narrative. After the attempt
// budget is exhausted the last error is returned wrapped, never a panic or
// an unhandled provider exception.
func (e *Extractor) Extract(ctx context.Context, narrative string) (*MainCharacter, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   mainCharacterSchema,
		SystemInstruction: &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: extractorSystemPrompt}},
		},
	}
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: narrative}},
	}}

	var lastErr error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := e.baseDelay << (attempt - 1)
			jitter := time.Duration(rand.Int63n(int64(e.baseDelay)))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("llm.Extractor.Extract: %w", ctx.Err())
			case <-time.After(delay + jitter):
			}
		}

		resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		var character MainCharacter
		if err := json.Unmarshal([]byte(extractText(resp)), &character); err != nil {
			lastErr = err
			continue
		}
		return &character, nil
	}
	return nil, fmt.Errorf("llm.Extractor.Extract: giving up after %d attempts: %w", e.maxAttempts, lastErr)
}
