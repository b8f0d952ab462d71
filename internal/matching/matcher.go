package matching

import (
	"context"
	"fmt"
	"net/url"

	"rotation/internal/playlist"
	"rotation/internal/sources"
)

// Resolution is the outcome of matching one candidate. Resolved reports
// whether Track carries an addressable identifier; unresolved tracks are
// manual placeholders the curator finishes by hand.
type Resolution struct {
	Track    playlist.Track
	Resolved bool
}

// Matcher turns one candidate into zero or more playlist tracks. An album
// candidate may expand into several resolved tracks; a failed or unknown
// match must yield a single unresolved placeholder, never an error.
type Matcher interface {
	Match(ctx context.Context, candidate sources.Candidate) []Resolution
}

// SearchLink is the offline matcher: every candidate becomes a placeholder
// whose search URL locates the release by hand. Albums become a single
// "[Album: ...]" row the curator expands after picking tracks.
type SearchLink struct{}

// NewSearchLink builds the offline matcher.
func NewSearchLink() SearchLink {
	return SearchLink{}
}

// Match implements Matcher.
func (SearchLink) Match(_ context.Context, candidate sources.Candidate) []Resolution {
	if candidate.Type == sources.TypeAlbum {
		return []Resolution{albumPlaceholder(candidate)}
	}
	return []Resolution{trackPlaceholder(candidate)}
}

func trackPlaceholder(candidate sources.Candidate) Resolution {
	return Resolution{Track: playlist.Track{
		Artist:    candidate.Artist,
		Title:     candidate.Title,
		ID:        playlist.ManualID(candidate.Artist, candidate.Title),
		SearchURL: SearchURL(candidate.Artist, candidate.Title),
		Source:    candidate.Source,
		ScrapedAt: candidate.ScrapedAt,
		Sources:   []string{candidate.Source},
	}}
}

func albumPlaceholder(candidate sources.Candidate) Resolution {
	return Resolution{Track: playlist.Track{
		Artist:    candidate.Artist,
		Title:     fmt.Sprintf("[Album: %s]", candidate.Title),
		Album:     candidate.Title,
		ID:        playlist.ManualID(candidate.Artist, candidate.Title),
		SearchURL: SearchURL(candidate.Artist, candidate.Title),
		Source:    candidate.Source,
		ScrapedAt: candidate.ScrapedAt,
		Sources:   []string{candidate.Source},
	}}
}

// SearchURL builds the catalog search link for an artist/title pair.
func SearchURL(artist, title string) string {
	return "https://open.spotify.com/search/" + url.PathEscape(artist+" "+title)
}
