package matching

import (
	"context"
	"log/slog"

	"rotation/internal/catalog"
	"rotation/internal/logging"
	"rotation/internal/playlist"
	"rotation/internal/sources"
)

// Catalog resolves candidates against the local catalog of confirmed
// resolutions, falling back to search-link placeholders for anything the
// catalog does not know.
//
// Track candidates resolve to their single catalog entry. Album candidates
// resolve to at most tracksPerAlbumMax known tracks; when the catalog holds
// fewer than tracksPerAlbumMin the album falls back to its placeholder row,
// since a one-track rendering of an album misrepresents the recommendation.
type Catalog struct {
	store     *catalog.Store
	fallback  SearchLink
	minTracks int
	maxTracks int
	logger    *slog.Logger
}

// NewCatalog builds the catalog matcher.
func NewCatalog(store *catalog.Store, minTracks, maxTracks int, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Catalog{
		store:     store,
		fallback:  NewSearchLink(),
		minTracks: minTracks,
		maxTracks: maxTracks,
		logger:    logging.NewComponentLogger(logger, "matching"),
	}
}

// Match implements Matcher. Store failures degrade to placeholders.
func (m *Catalog) Match(ctx context.Context, candidate sources.Candidate) []Resolution {
	if candidate.Type == sources.TypeAlbum {
		return m.matchAlbum(ctx, candidate)
	}
	return m.matchTrack(ctx, candidate)
}

func (m *Catalog) matchTrack(ctx context.Context, candidate sources.Candidate) []Resolution {
	entry, found, err := m.store.LookupTrack(ctx, candidate.Artist, candidate.Title)
	if err != nil {
		m.logger.Warn("catalog lookup failed",
			logging.String("artist", candidate.Artist),
			logging.String("title", candidate.Title),
			logging.Error(err))
		return m.fallback.Match(ctx, candidate)
	}
	if !found {
		return m.fallback.Match(ctx, candidate)
	}
	return []Resolution{resolved(candidate, entry)}
}

func (m *Catalog) matchAlbum(ctx context.Context, candidate sources.Candidate) []Resolution {
	entries, err := m.store.AlbumTracks(ctx, candidate.Artist, candidate.Title, m.maxTracks)
	if err != nil {
		m.logger.Warn("catalog album lookup failed",
			logging.String("artist", candidate.Artist),
			logging.String("album", candidate.Title),
			logging.Error(err))
		return m.fallback.Match(ctx, candidate)
	}
	if len(entries) < m.minTracks {
		return m.fallback.Match(ctx, candidate)
	}

	resolutions := make([]Resolution, 0, len(entries))
	for _, entry := range entries {
		resolutions = append(resolutions, resolved(candidate, entry))
	}
	return resolutions
}

func resolved(candidate sources.Candidate, entry catalog.Entry) Resolution {
	return Resolution{
		Resolved: true,
		Track: playlist.Track{
			Artist:    entry.Artist,
			Title:     entry.Title,
			Album:     entry.Album,
			ID:        entry.TrackURI,
			Source:    candidate.Source,
			ScrapedAt: candidate.ScrapedAt,
			Sources:   []string{candidate.Source},
		},
	}
}
