// Package vignette loads the scenario text a conversation is grounded in.
// A vignette can come from a plain text file, a YAML card, or a live RSS
// feed; the rest of the generator only sees the Source interface.
package vignette

import "context"

// Source produces the scenario text for one conversation.
type Source interface {
	Load(ctx context.Context) (string, error)
}
