package renderer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sat8bit/taiwa/bus"
	"github.com/sat8bit/taiwa/transcript"
)

var csvHeader = []string{"conversation_id", "turn", "exchange", "participant_id", "name", "role", "content", "modifiers"}

// CSVRenderer writes one flat CSV file per conversation for spreadsheet
// review and downstream dataset tooling.
type CSVRenderer struct {
	outputDir string
}

func NewCSVRenderer(outputDir string) *CSVRenderer {
	return &CSVRenderer{outputDir: outputDir}
}

func (c *CSVRenderer) Render(_ bus.Bus, _ *sync.WaitGroup) error {
	return nil
}

func (c *CSVRenderer) Finalize(conversations []*transcript.Conversation) error {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return fmt.Errorf("renderer.Finalize: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	for i, conv := range conversations {
		if conv == nil {
			continue
		}
		path := filepath.Join(c.outputDir, fmt.Sprintf("conversation_%s_%03d.csv", stamp, i+1))
		if err := c.writeOne(path, conv); err != nil {
			return fmt.Errorf("renderer.Finalize: %w", err)
		}
	}
	return nil
}

func (c *CSVRenderer) writeOne(path string, conv *transcript.Conversation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i, rec := range conv.Records {
		row := []string{
			conv.ID,
			strconv.Itoa(rec.Turn),
			strconv.Itoa(i),
			rec.ParticipantID,
			rec.DisplayName,
			rec.Role,
			rec.Content,
			strings.Join(rec.Modifiers, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var _ Renderer = (*CSVRenderer)(nil)
