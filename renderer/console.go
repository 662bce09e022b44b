package renderer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/transcript"
)

// ConsoleRenderer streams events to a writer as they arrive so long batch
// runs show progress. Finalize prints a one-line summary.
type ConsoleRenderer struct {
	out io.Writer
}

func NewConsoleRenderer() *ConsoleRenderer {
	return &ConsoleRenderer{out: os.Stdout}
}

// NewConsoleRendererTo writes to out instead of stdout.
func NewConsoleRendererTo(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{out: out}
}

func (c *ConsoleRenderer) Render(b bus.Bus, wg *sync.WaitGroup) error {
	ch := b.Subscribe()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range ch {
			switch e.Kind {
			case transcript.KindSystem:
				fmt.Fprintf(c.out, "[System] %s\n", e.Text)
			case transcript.KindError:
				fmt.Fprintf(c.out, "[Error] %s\n", e.Text)
			case transcript.KindLog:
				fmt.Fprintf(c.out, "[Log] %s\n", e.Text)
			case transcript.KindDone:
				fmt.Fprintf(c.out, "[System] conversation %s complete\n", e.ConversationID)
			case transcript.KindExchange:
				if e.Record != nil {
					fmt.Fprintf(c.out, "%s: %s\n", e.Record.DisplayName, e.Record.Content)
				}
			}
		}
	}()

	return nil
}

func (c *ConsoleRenderer) Finalize(conversations []*transcript.Conversation) error {
	generated := 0
	for _, conv := range conversations {
		if conv != nil {
			generated++
		}
	}
	fmt.Fprintf(c.out, "[System] generated %d/%d conversations\n", generated, len(conversations))
	return nil
}

var _ Renderer = (*ConsoleRenderer)(nil)
