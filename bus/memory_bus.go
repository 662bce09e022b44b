package bus

import (
	"fmt"
	"sync"

	"github.com/sat8bit/taiwa/transcript"
)

// MemoryBus is the in-memory Bus implementation. It keeps a list of
// subscriber channels and delivers every broadcast event to all of them.
type MemoryBus struct {
	subscribers []chan *transcript.Event
	mu          sync.RWMutex
	isClosed    bool
}

// NewMemoryBus creates a new MemoryBus.
func NewMemoryBus() Bus {
	return &MemoryBus{
		subscribers: make([]chan *transcript.Event, 0),
	}
}

// Broadcast delivers the event to every subscriber without blocking. If a
// subscriber's buffer is full the event is dropped for that subscriber.
func (b *MemoryBus) Broadcast(e *transcript.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed {
		return fmt.Errorf("bus is closed")
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// Subscriber is not keeping up. Drop the event.
		}
	}
	return nil
}

// Subscribe registers a new subscriber and returns its receive channel.
func (b *MemoryBus) Subscribe() <-chan *transcript.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *transcript.Event, 64)
	if b.isClosed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Close shuts the bus down and closes all subscriber channels.
func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isClosed {
		b.isClosed = true
		for _, ch := range b.subscribers {
			close(ch)
		}
		b.subscribers = nil
	}
}

var _ Bus = (*MemoryBus)(nil)
