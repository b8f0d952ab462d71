package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rotation/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}

	if cfg.Playlist.TargetSize != 50 {
		t.Fatalf("unexpected target size: %d", cfg.Playlist.TargetSize)
	}
	if cfg.Playlist.TracksPerAlbumMin != 3 || cfg.Playlist.TracksPerAlbumMax != 5 {
		t.Fatalf("unexpected album bounds: %d..%d", cfg.Playlist.TracksPerAlbumMin, cfg.Playlist.TracksPerAlbumMax)
	}
	if cfg.Retention.Days != 14 {
		t.Fatalf("unexpected retention days: %d", cfg.Retention.Days)
	}
	if cfg.Matching.Mode != config.MatchingModeSearchLink {
		t.Fatalf("unexpected matching mode: %q", cfg.Matching.Mode)
	}
	if len(cfg.Genres.Include) == 0 || len(cfg.Genres.Exclude) == 0 {
		t.Fatal("expected default genre lists to be populated")
	}
	if !filepath.IsAbs(cfg.Paths.StateFile) {
		t.Fatalf("expected absolute state file path, got %q", cfg.Paths.StateFile)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "rotation.toml")

	type sourcePayload struct {
		Name string `toml:"name"`
		Kind string `toml:"kind"`
		URL  string `toml:"url"`
		Type string `toml:"type"`
	}
	type payload struct {
		Paths struct {
			StateFile string `toml:"state_file"`
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Playlist struct {
			TargetSize int `toml:"target_size"`
		} `toml:"playlist"`
		Retention struct {
			Days int `toml:"days"`
		} `toml:"retention"`
		Sources []sourcePayload `toml:"sources"`
	}
	custom := payload{}
	custom.Paths.StateFile = filepath.Join(tempDir, "state.json")
	custom.Paths.OutputDir = tempDir
	custom.Playlist.TargetSize = 25
	custom.Retention.Days = 7
	custom.Sources = []sourcePayload{{
		Name: "bandcamp-daily",
		Kind: "feed",
		URL:  "https://daily.bandcamp.com/feed",
		Type: "album",
	}}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Playlist.TargetSize != 25 {
		t.Fatalf("expected target size 25, got %d", cfg.Playlist.TargetSize)
	}
	if cfg.Retention.Days != 7 {
		t.Fatalf("expected retention days 7, got %d", cfg.Retention.Days)
	}
	if cfg.Paths.StateFile != custom.Paths.StateFile {
		t.Fatalf("unexpected state file: %q", cfg.Paths.StateFile)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Name != "bandcamp-daily" {
		t.Fatalf("unexpected sources: %+v", cfg.Sources)
	}
	// Unset knobs fall back to defaults.
	if cfg.Playlist.TracksPerAlbumMin != 3 {
		t.Fatalf("expected default album min, got %d", cfg.Playlist.TracksPerAlbumMin)
	}
	if cfg.Fetch.UserAgent == "" {
		t.Fatal("expected default user agent")
	}
}

func TestNtfyTopicEnvFallback(t *testing.T) {
	t.Setenv("ROTATION_NTFY_TOPIC", "https://ntfy.sh/env-topic")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/env-topic" {
		t.Fatalf("expected topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "bandcamp-daily") {
		t.Fatalf("sample config missing example source: %s", contents)
	}

	// Validate it decodes
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Playlist.TargetSize != 50 {
		t.Fatalf("sample target size = %d, want 50", cfg.Playlist.TargetSize)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected two active sample sources, got %d", len(cfg.Sources))
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Playlist.TargetSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive target size")
	}

	cfg = config.Default()
	cfg.Playlist.TracksPerAlbumMin = 6
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when album min exceeds max")
	}

	cfg = config.Default()
	cfg.Retention.Days = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive retention days")
	}

	cfg = config.Default()
	cfg.Matching.Mode = "spotify"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown matching mode")
	}

	cfg = config.Default()
	cfg.Sources = []config.Source{{Name: "broken", Kind: "feed", Type: "album"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for feed source without url")
	}

	cfg = config.Default()
	cfg.Sources = []config.Source{
		{Name: "dup", Kind: "feed", URL: "https://a.example/feed", Type: "album"},
		{Name: "dup", Kind: "feed", URL: "https://b.example/feed", Type: "album"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for duplicate source names")
	}

	cfg = config.Default()
	cfg.Sources = []config.Source{{Name: "bv", Kind: "page", URL: "https://example.com", Type: "track"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for page source without selectors")
	}
}

func TestSourceDefaultsApplied(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	body := `
[[sources]]
name = "picks"
kind = "file"
path = "` + filepath.Join(tempDir, "picks.json") + `"
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sources[0].Type != "album" {
		t.Fatalf("expected default source type album, got %q", cfg.Sources[0].Type)
	}
}
