// Package buslog bridges slog records onto the transcript event bus so
// warnings raised during generation appear inline in the console stream.
package buslog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/transcript"
)

// Handler is a slog.Handler that writes log records to a bus.Bus.
type Handler struct {
	bus   bus.Bus
	level slog.Level
}

// NewHandler creates a Handler that forwards records at or above level.
func NewHandler(b bus.Bus, level slog.Level) *Handler {
	return &Handler{bus: b, level: level}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("[%s] %s", r.Level, r.Message))
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(fmt.Sprintf(" %s=%v", a.Key, a.Value))
		return true
	})

	return h.bus.Broadcast(&transcript.Event{
		Kind: transcript.KindLog,
		Text: buf.String(),
		At:   time.Now(),
	})
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{bus: h.bus, level: h.level}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{bus: h.bus, level: h.level}
}

var _ slog.Handler = (*Handler)(nil)
