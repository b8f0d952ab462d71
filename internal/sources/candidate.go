package sources

import "time"

// Release types a source can produce.
const (
	TypeAlbum = "album"
	TypeTrack = "track"
)

// Candidate is a raw scraped release before matching. Candidates are
// ephemeral: one batch is produced per run and discarded once matched.
type Candidate struct {
	Artist string
	Title  string
	// Source is the configured name of the producer that found the release.
	Source string
	// Type is "album" or "track".
	Type string
	// URL points at the page or entry the release was scraped from.
	URL       string
	ScrapedAt time.Time
	// Genres holds normalized lowercase tags. Empty means the source carries
	// no genre signal for this release.
	Genres []string
}
