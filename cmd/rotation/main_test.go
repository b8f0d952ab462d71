package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rotation/internal/config"
	"rotation/internal/logging"
	"rotation/internal/matching"
)

func writeTestConfig(t *testing.T) (configPath, baseDir string) {
	t.Helper()

	base := t.TempDir()
	picksPath := filepath.Join(base, "picks.json")
	picks := `[
		{"artist": "Restraining Order", "title": "Fight Back", "genres": ["punk"]},
		{"artist": "Overmono", "title": "Good Lies", "genres": ["uk garage"]}
	]`
	if err := os.WriteFile(picksPath, []byte(picks), 0o644); err != nil {
		t.Fatalf("write picks: %v", err)
	}

	configPath = filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
state_file = %q
catalog_path = %q
output_dir = %q
log_dir = %q

[playlist]
target_size = 50
tracks_per_album_min = 3
tracks_per_album_max = 5

[[sources]]
name = "picks"
kind = "file"
path = %q
type = "track"
`,
		filepath.Join(base, "state.json"),
		filepath.Join(base, "catalog.db"),
		filepath.Join(base, "output"),
		filepath.Join(base, "logs"),
		picksPath,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, base
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunCommandProducesPlaylist(t *testing.T) {
	configPath, base := writeTestConfig(t)

	out, err := executeCommand(t, "--config", configPath, "run")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Run Summary") {
		t.Fatalf("summary missing:\n%s", out)
	}

	entries, err := os.ReadDir(filepath.Join(base, "output"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("playlist file not written: %v (%d entries)", err, len(entries))
	}
	if _, err := os.Stat(filepath.Join(base, "state.json")); err != nil {
		t.Fatalf("state not persisted: %v", err)
	}
}

func TestRunCommandDryRun(t *testing.T) {
	configPath, base := writeTestConfig(t)

	out, err := executeCommand(t, "--config", configPath, "run", "--dry-run")
	if err != nil {
		t.Fatalf("dry run failed: %v\n%s", err, out)
	}
	if entries, _ := os.ReadDir(filepath.Join(base, "output")); len(entries) != 0 {
		t.Fatal("dry run wrote playlist files")
	}
}

func TestStateShowReportsEmptyStore(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := executeCommand(t, "--config", configPath, "state", "show")
	if err != nil {
		t.Fatalf("state show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Tracks in rotation: 0") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Last run: never") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestStateClearRequiresConfirmation(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if _, err := executeCommand(t, "--config", configPath, "state", "clear"); err == nil {
		t.Fatal("state clear without --yes succeeded")
	}
	if out, err := executeCommand(t, "--config", configPath, "state", "clear", "--yes"); err != nil {
		t.Fatalf("state clear --yes failed: %v\n%s", err, out)
	}
}

func TestCatalogAddListRemove(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := executeCommand(t, "--config", configPath,
		"catalog", "add", "Wednesday", "Bull Believer", "spotify:track:abc",
		"--album", "Rat Saw God", "--position", "2")
	if err != nil {
		t.Fatalf("catalog add failed: %v\n%s", err, out)
	}

	out, err = executeCommand(t, "--config", configPath, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Bull Believer") || !strings.Contains(out, "spotify:track:abc") {
		t.Fatalf("catalog entry missing:\n%s", out)
	}

	if out, err = executeCommand(t, "--config", configPath, "catalog", "remove", "Wednesday", "Bull Believer"); err != nil {
		t.Fatalf("catalog remove failed: %v\n%s", err, out)
	}

	out, err = executeCommand(t, "--config", configPath, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Catalog is empty") {
		t.Fatalf("catalog not empty after remove:\n%s", out)
	}
}

func TestBuildMatcherCatalogMode(t *testing.T) {
	cfg := config.Default()
	cfg.Matching.Mode = config.MatchingModeCatalog
	cfg.Paths.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")

	matcher, closeMatcher, err := buildMatcher(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("buildMatcher: %v", err)
	}
	defer closeMatcher()

	if _, ok := matcher.(*matching.Catalog); !ok {
		t.Fatalf("matcher = %T, want *matching.Catalog", matcher)
	}
}

func TestSourcesList(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := executeCommand(t, "--config", configPath, "sources", "list")
	if err != nil {
		t.Fatalf("sources list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "picks") || !strings.Contains(out, "file") {
		t.Fatalf("source row missing:\n%s", out)
	}
}

func TestConfigValidateHonorsConfigFlag(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := executeCommand(t, "--config", configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, configPath) || !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if !strings.Contains(string(data), "[playlist]") {
		t.Fatal("sample config missing playlist section")
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("config init overwrote existing file without --overwrite")
	}
}
