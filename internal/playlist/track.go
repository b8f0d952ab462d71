// Package playlist defines the Track model shared by the curation pipeline.
//
// Identity is the ID string: two Tracks are the same entity iff their IDs are
// equal. Every other field is metadata. IDs are either addressable catalog
// URIs (spotify:track:...) or manual placeholders carrying the ManualIDPrefix;
// placeholders stand in for releases no matcher could resolve and bypass
// retention aging.
package playlist

import (
	"strings"
	"time"

	"rotation/internal/textnorm"
)

// ManualIDPrefix marks placeholder identifiers for unresolved releases.
const ManualIDPrefix = "manual:"

// Track is a matched, identifiable playlist entry.
type Track struct {
	Artist string
	Title  string
	// Album may be empty for standalone singles.
	Album string
	ID    string
	// SearchURL lets the renderer offer a lookup link for unresolved entries.
	SearchURL string
	// Source is the source that first surfaced the release; Sources is the
	// sorted provenance union maintained by the merger.
	Source    string
	ScrapedAt time.Time
	Sources   []string
	// WeeksInPlaylist is recomputed each run from the persisted first-seen
	// timestamp. Zero for new arrivals and placeholders.
	WeeksInPlaylist int
}

// IsManual reports whether the track carries a placeholder identifier.
func (t Track) IsManual() bool {
	return IsManualID(t.ID)
}

// IsManualID reports whether id carries the manual placeholder prefix.
func IsManualID(id string) bool {
	return strings.HasPrefix(id, ManualIDPrefix)
}

// ManualID builds the deterministic placeholder identifier for an unresolved
// artist/title pair. The slug is case-folded and whitespace-collapsed so the
// same release surfacing from two sources carries the same identifier and can
// be merged like any resolved track.
func ManualID(artist, title string) string {
	return ManualIDPrefix + textnorm.Slug(artist, title)
}
