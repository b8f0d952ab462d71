package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rotation/internal/config"
	"rotation/internal/logging"
)

// Producer yields the candidates one configured source currently surfaces.
type Producer interface {
	Name() string
	Produce(ctx context.Context) ([]Candidate, error)
}

// NewProducers builds one producer per configured source, in declaration
// order. The shared HTTP client carries the configured timeout and user
// agent for feed and page sources.
func NewProducers(cfg *config.Config, logger *slog.Logger) ([]Producer, error) {
	client := &http.Client{Timeout: cfg.FetchTimeout()}

	producers := make([]Producer, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		switch src.Kind {
		case "feed":
			producers = append(producers, newFeedProducer(src, client, cfg.Fetch.UserAgent))
		case "page":
			producers = append(producers, newPageProducer(src, client, cfg.Fetch.UserAgent))
		case "file":
			producers = append(producers, newFileProducer(src))
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q", src.Name, src.Kind)
		}
	}
	return producers, nil
}

// FetchAll runs every producer concurrently and returns the combined
// candidates in producer declaration order, plus the names of sources that
// failed or came back empty. Per-source failures degrade to zero candidates.
func FetchAll(ctx context.Context, producers []Producer, logger *slog.Logger) ([]Candidate, []string) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "sources")

	results := make([][]Candidate, len(producers))

	var group errgroup.Group
	for i, producer := range producers {
		group.Go(func() error {
			candidates, err := producer.Produce(ctx)
			if err != nil {
				logger.Warn("source fetch failed",
					logging.String(logging.FieldSource, producer.Name()),
					logging.Error(err))
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	_ = group.Wait()

	var combined []Candidate
	var degraded []string
	for i, producer := range producers {
		if len(results[i]) == 0 {
			degraded = append(degraded, producer.Name())
			continue
		}
		logger.Info("source fetched",
			logging.String(logging.FieldSource, producer.Name()),
			logging.Int(logging.FieldCount, len(results[i])))
		combined = append(combined, results[i]...)
	}
	return combined, degraded
}

// titleSeparators are tried in order when a source does not configure its
// own artist/title separator. Colon first: feed entries like
// "Artist: Album Title" would otherwise split on a hyphenated artist name.
var titleSeparators = []string{": ", " - ", " — ", " – "}

// splitEntryTitle splits a feed or page entry title into artist and release
// title. Entries that carry no recognizable separator are unusable and
// reported as not ok.
func splitEntryTitle(raw, separator string) (artist, title string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	separators := titleSeparators
	if separator != "" {
		separators = []string{separator}
	}
	for _, sep := range separators {
		if idx := strings.Index(raw, sep); idx > 0 {
			artist = strings.TrimSpace(raw[:idx])
			title = strings.TrimSpace(raw[idx+len(sep):])
			if artist != "" && title != "" {
				return artist, title, true
			}
		}
	}
	return "", "", false
}

func stampCandidates(candidates []Candidate, src config.Source, now time.Time) []Candidate {
	for i := range candidates {
		candidates[i].Source = src.Name
		candidates[i].ScrapedAt = now
		if candidates[i].Type == "" {
			candidates[i].Type = src.Type
		}
	}
	return candidates
}
