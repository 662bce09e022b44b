package vignette

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"
)

const summaryMaxRunes = 200

var htmlTags = regexp.MustCompile("<[^>]*>")

// FeedSource builds a vignette from the newest entry of an RSS/Atom feed,
// so batches can be seeded from current events instead of static files.
type FeedSource struct {
	url    string
	parser *gofeed.Parser
}

// NewFeedSource creates a Source backed by the feed at url.
func NewFeedSource(url string) *FeedSource {
	return &FeedSource{url: url, parser: gofeed.NewParser()}
}

func (s *FeedSource) Load(ctx context.Context) (string, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return "", fmt.Errorf("vignette.Load: parse feed %s: %w", s.url, err)
	}
	if len(feed.Items) == 0 {
		return "", fmt.Errorf("vignette.Load: feed %s has no items", s.url)
	}

	// Newest first. Items without a parsed timestamp keep feed order.
	sort.SliceStable(feed.Items, func(i, j int) bool {
		it, jt := feed.Items[i].PublishedParsed, feed.Items[j].PublishedParsed
		if it == nil || jt == nil {
			return false
		}
		return it.After(*jt)
	})

	item := feed.Items[0]
	summary := truncateRunes(strings.TrimSpace(htmlTags.ReplaceAllString(item.Description, "")), summaryMaxRunes)

	var b strings.Builder
	b.WriteString(item.Title)
	if summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}
	return b.String(), nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

var _ Source = (*FeedSource)(nil)
