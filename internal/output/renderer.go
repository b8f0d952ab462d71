package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rotation/internal/logging"
	"rotation/internal/playlist"
	"rotation/internal/textnorm"
)

const rule = "======================================================================"

// Renderer writes playlist files into a fixed output directory.
type Renderer struct {
	dir    string
	logger *slog.Logger
}

// NewRenderer builds a renderer targeting dir.
func NewRenderer(dir string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "output"),
	}
}

// Render writes playlist_YYYY-MM-DD.txt for the given run date and returns
// the file path. Items are expected in final album-grouped order; priority
// holds the multi-source subset already restricted to the final playlist.
func (r *Renderer) Render(items, priority []playlist.Track, now time.Time) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	date := now.Format("2006-01-02")
	path := filepath.Join(r.dir, fmt.Sprintf("playlist_%s.txt", date))

	var b strings.Builder
	r.writeHeader(&b, date, len(items), len(priority))
	r.writePriority(&b, priority)
	r.writePlaylist(&b, items)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write playlist file: %w", err)
	}

	r.logger.Info("playlist written",
		logging.String(logging.FieldPath, path),
		logging.Int(logging.FieldCount, len(items)))
	return path, nil
}

func (r *Renderer) writeHeader(b *strings.Builder, date string, total, priority int) {
	fmt.Fprintf(b, "Weekly Playlist - %s\n", date)
	fmt.Fprintf(b, "Total items: %d\n", total)
	fmt.Fprintf(b, "Priority (multiple sources): %d\n", priority)
	b.WriteString(rule + "\n\n")
}

func (r *Renderer) writePriority(b *strings.Builder, priority []playlist.Track) {
	if len(priority) == 0 {
		return
	}

	b.WriteString("### PRIORITY - Recommended by Multiple Sources ###\n\n")
	for _, item := range priority {
		fmt.Fprintf(b, "* %s - %s\n", item.Artist, item.Title)
		fmt.Fprintf(b, "  Sources: %s\n", strings.Join(item.Sources, ", "))
		fmt.Fprintf(b, "  %s\n\n", locator(item))
	}
	b.WriteString(rule + "\n\n")
}

func (r *Renderer) writePlaylist(b *strings.Builder, items []playlist.Track) {
	b.WriteString("### FULL PLAYLIST ###\n\n")
	b.WriteString("Open the search links to find unresolved items.\n")
	b.WriteString("For albums, search and pick the tracks you like.\n\n")

	var currentAlbum string
	for i, item := range items {
		albumKey := ""
		if item.Album != "" {
			albumKey = textnorm.Fold(item.Artist) + "\x00" + textnorm.Fold(item.Album)
		}
		if albumKey != "" && albumKey != currentAlbum {
			if currentAlbum != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(b, "--- %s - %s ---\n", item.Artist, item.Album)
			currentAlbum = albumKey
		}

		week := ""
		if item.WeeksInPlaylist > 0 {
			week = fmt.Sprintf(" (week %d)", item.WeeksInPlaylist+1)
		}

		// Album placeholder rows read better as artist - album.
		title := item.Title
		if strings.Contains(item.Title, "[Album:") {
			title = item.Album
		}
		fmt.Fprintf(b, "%d. %s - %s%s\n", i+1, item.Artist, title, week)

		source := item.Source
		if len(item.Sources) > 0 {
			source = item.Sources[0]
		}
		fmt.Fprintf(b, "   Source: %s\n", source)
		fmt.Fprintf(b, "   %s\n\n", locator(item))
	}
}

// locator returns the line pointing at the release: the track URI for
// resolved items, the search link for manual placeholders.
func locator(item playlist.Track) string {
	if item.IsManual() {
		return "Search: " + item.SearchURL
	}
	return "Track: " + item.ID
}
