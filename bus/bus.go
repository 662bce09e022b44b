package bus

import (
	"github.com/sat8bit/taiwa/transcript"
)

// Bus carries transcript events from generation to the renderers.
type Bus interface {
	Broadcast(e *transcript.Event) error
	Subscribe() <-chan *transcript.Event
	Close()
}
