package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/transcript"
)

// Document is the on-disk JSON schema for one conversation. Downstream
// tooling (dialog extraction, review pipelines) reads this shape back.
type Document struct {
	ConversationID       string                      `json:"conversation_id"`
	Title                string                      `json:"title"`
	Description          string                      `json:"description"`
	CreatedTimestamp     string                      `json:"created_timestamp"`
	TotalTurns           int                         `json:"total_turns"`
	Domain               string                      `json:"domain"`
	Personas             map[string]PersonaInfo      `json:"personas"`
	InitialSystemPrompts map[string]SystemPromptInfo `json:"initial_system_prompts"`
	ConversationTurns    []Turn                      `json:"conversation_turns"`
	Metadata             Metadata                    `json:"metadata"`
}

// PersonaInfo describes one participant; the modifier draw is reported here
// once instead of on every exchange.
type PersonaInfo struct {
	Name             string   `json:"name"`
	LLMRole          string   `json:"llm_role"`
	Persona          string   `json:"persona"`
	ConversationRole string   `json:"conversation_role"`
	Modifiers        []string `json:"modifiers"`
}

type SystemPromptInfo struct {
	SystemPrompt string `json:"system_prompt"`
}

// Turn groups the two exchanges of one conversational turn. TurnNumber is
// 1-indexed for display.
type Turn struct {
	TurnNumber int        `json:"turn_number"`
	Exchanges  []Exchange `json:"exchanges"`
}

type Exchange struct {
	Role          string  `json:"role"`
	Name          string  `json:"name"`
	ParticipantID string  `json:"participant_id"`
	Message       Message `json:"message"`
}

type Message struct {
	Content string `json:"content"`
}

type Metadata struct {
	ConfigFile          string `json:"config_file,omitempty"`
	GenerationTimestamp string `json:"generation_timestamp"`
	VignetteFile        string `json:"vignette_file,omitempty"`
}

// BuildDocument converts a completed conversation into the JSON schema.
func BuildDocument(conv *transcript.Conversation, configFile, vignetteFile string) *Document {
	timestamp := conv.CreatedAt.Format(time.RFC3339)

	personas := make(map[string]PersonaInfo, len(conv.Participants))
	prompts := make(map[string]SystemPromptInfo, len(conv.Participants))
	for _, p := range conv.Participants {
		mods := conv.Modifiers[p.ID]
		if mods == nil {
			mods = []string{}
		}
		personas[p.ID] = PersonaInfo{
			Name:             p.DisplayName,
			LLMRole:          p.LLMRole,
			Persona:          p.PersonaRole,
			ConversationRole: string(p.ConversationRole),
			Modifiers:        mods,
		}
		prompts[p.ID] = SystemPromptInfo{SystemPrompt: conv.SystemPrompts[p.ID]}
	}

	var turns []Turn
	for _, rec := range conv.Records {
		if len(turns) == 0 || turns[len(turns)-1].TurnNumber != rec.Turn+1 {
			turns = append(turns, Turn{TurnNumber: rec.Turn + 1})
		}
		last := &turns[len(turns)-1]
		last.Exchanges = append(last.Exchanges, Exchange{
			Role:          rec.Role,
			Name:          rec.DisplayName,
			ParticipantID: rec.ParticipantID,
			Message:       Message{Content: rec.Content},
		})
	}

	return &Document{
		ConversationID:       conv.ID,
		Title:                conv.Title,
		Description:          conv.Description,
		CreatedTimestamp:     timestamp,
		TotalTurns:           len(turns),
		Domain:               conv.Domain,
		Personas:             personas,
		InitialSystemPrompts: prompts,
		ConversationTurns:    turns,
		Metadata: Metadata{
			ConfigFile:          configFile,
			GenerationTimestamp: timestamp,
			VignetteFile:        vignetteFile,
		},
	}
}

// LoadDocument reads a conversation JSON file back into its schema.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("renderer.LoadDocument: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("renderer.LoadDocument: parse %s: %w", path, err)
	}
	return &doc, nil
}

// JSONRenderer writes one schema file per conversation into outputDir,
// optionally with a YAML debug bundle beside it.
type JSONRenderer struct {
	outputDir    string
	configFile   string
	vignetteFile string
	saveDebug    bool
}

func NewJSONRenderer(outputDir string) *JSONRenderer {
	return &JSONRenderer{outputDir: outputDir}
}

// WithMetadata records the source files in each document's metadata block.
func (j *JSONRenderer) WithMetadata(configFile, vignetteFile string) *JSONRenderer {
	j.configFile = configFile
	j.vignetteFile = vignetteFile
	return j
}

// WithDebug also writes each conversation's debug capture, when present.
func (j *JSONRenderer) WithDebug() *JSONRenderer {
	j.saveDebug = true
	return j
}

// Render is a no-op: the JSON renderer only works from completed
// conversations.
func (j *JSONRenderer) Render(_ bus.Bus, _ *sync.WaitGroup) error {
	return nil
}

func (j *JSONRenderer) Finalize(conversations []*transcript.Conversation) error {
	if err := os.MkdirAll(j.outputDir, 0o755); err != nil {
		return fmt.Errorf("renderer.Finalize: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	for i, conv := range conversations {
		if conv == nil {
			continue
		}

		doc := BuildDocument(conv, j.configFile, j.vignetteFile)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("renderer.Finalize: %w", err)
		}

		path := filepath.Join(j.outputDir, fmt.Sprintf("conversation_%s_%03d.json", stamp, i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("renderer.Finalize: %w", err)
		}

		if j.saveDebug && conv.Debug != nil {
			debugPath := filepath.Join(j.outputDir, fmt.Sprintf("conversation_%s_%03d_debug.yaml", stamp, i+1))
			if err := writeDebug(debugPath, conv); err != nil {
				return fmt.Errorf("renderer.Finalize: %w", err)
			}
		}
	}
	return nil
}

var _ Renderer = (*JSONRenderer)(nil)
