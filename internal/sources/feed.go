package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"rotation/internal/config"
	"rotation/internal/textnorm"
)

// feedProducer scrapes release announcements from an RSS/Atom feed. Entry
// titles are split into artist and release title; feed categories become
// genre tags.
type feedProducer struct {
	src    config.Source
	parser *gofeed.Parser
}

func newFeedProducer(src config.Source, client *http.Client, userAgent string) *feedProducer {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &feedProducer{src: src, parser: parser}
}

func (p *feedProducer) Name() string { return p.src.Name }

func (p *feedProducer) Produce(ctx context.Context) ([]Candidate, error) {
	feed, err := p.parser.ParseURLWithContext(p.src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", p.src.URL, err)
	}

	now := time.Now()
	candidates := make([]Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		artist, title, ok := splitEntryTitle(item.Title, p.src.Separator)
		if !ok {
			continue
		}
		tags := append([]string(nil), item.Categories...)
		tags = append(tags, p.src.Genres...)
		candidates = append(candidates, Candidate{
			Artist: artist,
			Title:  title,
			URL:    item.Link,
			Genres: textnorm.NormalizeTags(tags),
		})
	}
	return stampCandidates(candidates, p.src, now), nil
}
