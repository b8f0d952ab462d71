// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"rotation/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateFile = filepath.Join(base, "state.json")
	cfg.Paths.CatalogPath = filepath.Join(base, "catalog.db")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithGenres overrides the admission lists on the test config.
func WithGenres(include, exclude []string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Genres.Include = include
		cfg.Genres.Exclude = exclude
	}
}

// WithTargetSize overrides the playlist capacity on the test config.
func WithTargetSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Playlist.TargetSize = size
	}
}

// WithFileSource writes entries as a JSON candidate file and registers it as
// the config's only source.
func WithFileSource(t testing.TB, name string, entries any) ConfigOption {
	t.Helper()
	return func(cfg *config.Config) {
		data, err := json.Marshal(entries)
		if err != nil {
			t.Fatalf("marshal candidate entries: %v", err)
		}
		path := filepath.Join(filepath.Dir(cfg.Paths.StateFile), name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write candidate file: %v", err)
		}
		cfg.Sources = []config.Source{{
			Name: name,
			Kind: "file",
			Path: path,
			Type: "track",
		}}
	}
}
