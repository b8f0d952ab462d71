package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"rotation/internal/config"
	"rotation/internal/textnorm"
)

// fileEntry is one release in a local JSON candidate list.
type fileEntry struct {
	Artist string   `json:"artist"`
	Title  string   `json:"title"`
	Type   string   `json:"type"`
	URL    string   `json:"url"`
	Genres []string `json:"genres"`
}

// fileProducer reads hand-picked releases from a local JSON file. It doubles
// as the test vehicle for the pipeline since it needs no network.
type fileProducer struct {
	src config.Source
}

func newFileProducer(src config.Source) *fileProducer {
	return &fileProducer{src: src}
}

func (p *fileProducer) Name() string { return p.src.Name }

func (p *fileProducer) Produce(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.src.Path)
	if err != nil {
		return nil, fmt.Errorf("read candidate file: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse candidate file %s: %w", p.src.Path, err)
	}

	now := time.Now()
	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.Artist == "" || entry.Title == "" {
			continue
		}
		tags := append([]string(nil), entry.Genres...)
		tags = append(tags, p.src.Genres...)
		candidates = append(candidates, Candidate{
			Artist: entry.Artist,
			Title:  entry.Title,
			Type:   entry.Type,
			URL:    entry.URL,
			Genres: textnorm.NormalizeTags(tags),
		})
	}
	return stampCandidates(candidates, p.src, now), nil
}
