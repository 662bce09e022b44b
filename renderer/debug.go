package renderer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sat8bit/taiwa/transcript"
)

// debugBundle wraps the capture with enough identity to match it back to
// its conversation file during review.
type debugBundle struct {
	ConversationID string            `yaml:"conversationId"`
	Title          string            `yaml:"title"`
	Capture        *transcript.Debug `yaml:"capture"`
}

func writeDebug(path string, conv *transcript.Conversation) error {
	data, err := yaml.Marshal(debugBundle{
		ConversationID: conv.ID,
		Title:          conv.Title,
		Capture:        conv.Debug,
	})
	if err != nil {
		return fmt.Errorf("renderer.writeDebug: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("renderer.writeDebug: %w", err)
	}
	return nil
}
