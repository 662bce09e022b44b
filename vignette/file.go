package vignette

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sat8bit/taiwa/errs"
)

// vignetteCard is the YAML wrapper for card-form vignettes. The scenario
// text is either inline or in a sibling file referenced by contentFile.
type vignetteCard struct {
	Card struct {
		Title       string `yaml:"title"`
		Content     string `yaml:"content"`
		ContentFile string `yaml:"contentFile"`
	} `yaml:"vignetteCard"`
}

// FileSource loads a vignette from disk. Plain .txt and .md files are used
// verbatim; .yaml/.yml files are parsed as vignette cards.
type FileSource struct {
	path string
}

// NewFileSource creates a Source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("vignette.Load: %w", errs.ConfigWrap(s.path, "cannot read vignette", err))
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return s.loadCard(data)
	default:
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("vignette.Load: %w", errs.Config(s.path, "vignette file is empty"))
		}
		return text, nil
	}
}

func (s *FileSource) loadCard(data []byte) (string, error) {
	var card vignetteCard
	if err := yaml.Unmarshal(data, &card); err != nil {
		return "", fmt.Errorf("vignette.loadCard: %w", errs.ConfigWrap(s.path, "malformed vignette card", err))
	}

	content := card.Card.Content
	if card.Card.ContentFile != "" {
		contentPath := card.Card.ContentFile
		if !filepath.IsAbs(contentPath) {
			contentPath = filepath.Join(filepath.Dir(s.path), contentPath)
		}
		raw, err := os.ReadFile(contentPath)
		if err != nil {
			return "", fmt.Errorf("vignette.loadCard: %w", errs.ConfigWrap(s.path, "cannot read content file "+card.Card.ContentFile, err))
		}
		content = string(raw)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("vignette.loadCard: %w", errs.Config(s.path, "vignette card has no content"))
	}
	return content, nil
}

var _ Source = (*FileSource)(nil)
