package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	StateFile   string `toml:"state_file"`
	CatalogPath string `toml:"catalog_path"`
	OutputDir   string `toml:"output_dir"`
	LogDir      string `toml:"log_dir"`
}

// Playlist contains sizing configuration for the generated playlist.
type Playlist struct {
	TargetSize        int `toml:"target_size"`
	TracksPerAlbumMin int `toml:"tracks_per_album_min"`
	TracksPerAlbumMax int `toml:"tracks_per_album_max"`
}

// Retention contains configuration for the first-seen retention store.
type Retention struct {
	Days               int `toml:"days"`
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
}

// Genres contains the admission filter keyword lists.
type Genres struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Fetch contains shared HTTP settings for candidate sources.
type Fetch struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Source describes one candidate producer.
//
// Kind selects the producer implementation:
//   - "feed": RSS/Atom feed at URL; entry titles are split into artist/title
//     and feed categories become genre tags
//   - "page": HTML page at URL scraped with the CSS selectors below
//   - "file": local JSON candidate list at Path
type Source struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
	URL  string `toml:"url"`
	Path string `toml:"path"`
	// Type is the release type produced by this source: "album" or "track".
	Type string `toml:"type"`
	// Genres are static tags attached to every candidate from this source,
	// merged with whatever the source itself reports.
	Genres []string `toml:"genres"`
	// Separator overrides the artist/title separator for feed entries.
	Separator string `toml:"separator"`
	// CSS selectors for page sources. ItemSelector scopes one release;
	// the remaining selectors are evaluated inside each item.
	ItemSelector   string `toml:"item_selector"`
	ArtistSelector string `toml:"artist_selector"`
	TitleSelector  string `toml:"title_selector"`
	GenreSelector  string `toml:"genre_selector"`
}

// Matching selects how candidates resolve to playlist tracks.
type Matching struct {
	// Mode is "searchlink" (offline placeholders with search URLs) or
	// "catalog" (local catalog lookups with searchlink fallback).
	Mode string `toml:"mode"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rotation.
//
// Configuration sections by subsystem:
//   - Paths: state file, catalog database, playlist output, and log directories
//   - Playlist: target size and per-album track bounds
//   - Retention: first-seen window and state lock timeout
//   - Genres: include/exclude admission lists
//   - Fetch: shared HTTP client settings for sources
//   - Sources: candidate producer definitions
//   - Matching: track resolution mode
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Playlist      Playlist      `toml:"playlist"`
	Retention     Retention     `toml:"retention"`
	Genres        Genres        `toml:"genres"`
	Fetch         Fetch         `toml:"fetch"`
	Sources       []Source      `toml:"sources"`
	Matching      Matching      `toml:"matching"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(filepath.Join(xdg.ConfigHome, "rotation", "config.toml"))
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rotation.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Paths.StateFile),
		c.Paths.OutputDir,
		c.Paths.LogDir,
	}
	if c.Matching.Mode == MatchingModeCatalog {
		dirs = append(dirs, filepath.Dir(c.Paths.CatalogPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RetentionWindow returns the retention window as a duration.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.Retention.Days) * 24 * time.Hour
}

// LockTimeout returns the state lock acquisition timeout as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Retention.LockTimeoutSeconds) * time.Second
}

// FetchTimeout returns the per-source HTTP timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// SourceNames returns configured source names in declaration order.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for _, src := range c.Sources {
		names = append(names, src.Name)
	}
	return names
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
