package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rotation/internal/textnorm"
)

// Entry is one confirmed resolution: a release the curator has already
// located, keyed by folded artist and title.
type Entry struct {
	Artist string
	Title  string
	Album  string
	// TrackURI is the addressable identifier, e.g. spotify:track:....
	TrackURI string
	// Position orders tracks within an album; zero means unordered.
	Position int
	AddedAt  time.Time
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS catalog_tracks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    artist TEXT NOT NULL,
    title TEXT NOT NULL,
    album TEXT NOT NULL DEFAULT '',
    artist_key TEXT NOT NULL,
    title_key TEXT NOT NULL,
    album_key TEXT NOT NULL DEFAULT '',
    track_uri TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    added_at TEXT NOT NULL,
    UNIQUE(artist_key, title_key)
);
CREATE INDEX IF NOT EXISTS idx_catalog_album ON catalog_tracks(artist_key, album_key);
`

// Open initializes or connects to the catalog database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts or replaces a confirmed resolution.
func (s *Store) Add(ctx context.Context, entry Entry) error {
	entry.Artist = strings.TrimSpace(entry.Artist)
	entry.Title = strings.TrimSpace(entry.Title)
	entry.Album = strings.TrimSpace(entry.Album)
	entry.TrackURI = strings.TrimSpace(entry.TrackURI)
	if entry.Artist == "" || entry.Title == "" {
		return errors.New("catalog entry requires artist and title")
	}
	if entry.TrackURI == "" {
		return errors.New("catalog entry requires a track URI")
	}
	addedAt := entry.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_tracks (
            artist, title, album, artist_key, title_key, album_key,
            track_uri, position, added_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(artist_key, title_key) DO UPDATE SET
            artist = excluded.artist,
            title = excluded.title,
            album = excluded.album,
            album_key = excluded.album_key,
            track_uri = excluded.track_uri,
            position = excluded.position,
            added_at = excluded.added_at`,
		entry.Artist,
		entry.Title,
		entry.Album,
		textnorm.Fold(entry.Artist),
		textnorm.Fold(entry.Title),
		textnorm.Fold(entry.Album),
		entry.TrackURI,
		entry.Position,
		addedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert catalog entry: %w", err)
	}
	return nil
}

// Remove deletes the resolution for an artist/title pair.
func (s *Store) Remove(ctx context.Context, artist, title string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM catalog_tracks WHERE artist_key = ? AND title_key = ?`,
		textnorm.Fold(artist), textnorm.Fold(title))
	if err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no catalog entry for %q - %q", artist, title)
	}
	return nil
}

// LookupTrack resolves one artist/title pair.
func (s *Store) LookupTrack(ctx context.Context, artist, title string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT artist, title, album, track_uri, position, added_at
         FROM catalog_tracks WHERE artist_key = ? AND title_key = ?`,
		textnorm.Fold(artist), textnorm.Fold(title))

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup track: %w", err)
	}
	return entry, true, nil
}

// AlbumTracks returns the known tracks of an album in position order,
// capped at limit when limit is positive.
func (s *Store) AlbumTracks(ctx context.Context, artist, album string, limit int) ([]Entry, error) {
	query := `SELECT artist, title, album, track_uri, position, added_at
              FROM catalog_tracks WHERE artist_key = ? AND album_key = ? AND album_key != ''
              ORDER BY position, title`
	args := []any{textnorm.Fold(artist), textnorm.Fold(album)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query album tracks: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album track: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate album tracks: %w", err)
	}
	return entries, nil
}

// List returns every catalog entry ordered by artist, album, and position.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT artist, title, album, track_uri, position, added_at
         FROM catalog_tracks ORDER BY artist_key, album_key, position, title_key`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var addedAt string
	if err := row.Scan(&entry.Artist, &entry.Title, &entry.Album, &entry.TrackURI, &entry.Position, &addedAt); err != nil {
		return Entry{}, err
	}
	if parsed, err := time.Parse(time.RFC3339, addedAt); err == nil {
		entry.AddedAt = parsed
	}
	return entry, nil
}
