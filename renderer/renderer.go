// Package renderer turns generated conversations into their output forms:
// live console streaming, structured JSON, CSV and reviewer-facing dialog
// text.
package renderer

import (
	"sync"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/transcript"
)

// Renderer consumes generation output. Render runs while conversations are
// being generated and streams events as they happen; Finalize runs once at
// the end with every completed conversation.
type Renderer interface {
	Render(b bus.Bus, wg *sync.WaitGroup) error
	Finalize(conversations []*transcript.Conversation) error
}
