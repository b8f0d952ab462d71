package pipeline_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rotation/internal/config"
	"rotation/internal/matching"
	"rotation/internal/output"
	"rotation/internal/pipeline"
	"rotation/internal/retention"
	"rotation/internal/sources"
	"rotation/internal/testsupport"
)

type stubProducer struct {
	name       string
	candidates []sources.Candidate
}

func (s stubProducer) Name() string { return s.name }

func (s stubProducer) Produce(context.Context) ([]sources.Candidate, error) {
	return s.candidates, nil
}

func candidate(artist, title, source string, genres ...string) sources.Candidate {
	return sources.Candidate{
		Artist: artist,
		Title:  title,
		Source: source,
		Type:   sources.TypeTrack,
		Genres: genres,
	}
}

type env struct {
	cfg      *config.Config
	store    *retention.Store
	clock    time.Time
	pipeline *pipeline.Pipeline
}

func newEnv(t *testing.T, producers []sources.Producer, clock time.Time) *env {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithGenres([]string{"punk"}, []string{"edm"}),
	)
	cfg.Notifications.NtfyTopic = ""

	store := retention.NewStore(cfg.Paths.StateFile, cfg.RetentionWindow(), cfg.LockTimeout(), nil)

	p, err := pipeline.New(pipeline.Deps{
		Config:    cfg,
		Producers: producers,
		Matcher:   matching.NewSearchLink(),
		Store:     store,
		Renderer:  output.NewRenderer(cfg.Paths.OutputDir, nil),
		Clock:     func() time.Time { return clock },
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return &env{cfg: cfg, store: store, clock: clock, pipeline: p}
}

func TestRunCuratesAndDeduplicates(t *testing.T) {
	producers := []sources.Producer{
		stubProducer{name: "src1", candidates: []sources.Candidate{
			candidate("A", "X", "src1", "punk"),
			candidate("B", "Y", "src1", "edm"),
		}},
		stubProducer{name: "src2", candidates: []sources.Candidate{
			candidate("A", "X", "src2", "punk"),
		}},
	}
	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, producers, now)

	report := e.pipeline.Run(context.Background(), false)

	// Unresolved placeholders surface as a match warning, so the run is
	// success-with-warnings, never failed.
	if report.Outcome != pipeline.OutcomeWarnings {
		t.Fatalf("outcome = %s (%s)", report.Outcome, report.FailureReason)
	}
	if report.Counts.Scraped != 3 {
		t.Fatalf("scraped = %d, want 3", report.Counts.Scraped)
	}
	// The edm release is rejected, the duplicates admitted.
	if report.Counts.Admitted != 2 {
		t.Fatalf("admitted = %d, want 2", report.Counts.Admitted)
	}
	if report.Counts.Unique != 1 || report.Counts.Priority != 1 {
		t.Fatalf("unique/priority = %d/%d, want 1/1", report.Counts.Unique, report.Counts.Priority)
	}
	if report.Counts.Final != 1 {
		t.Fatalf("final = %d, want 1", report.Counts.Final)
	}

	data, err := os.ReadFile(report.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Sources: src1, src2") {
		t.Fatalf("priority provenance missing:\n%s", content)
	}
	if strings.Contains(content, "B - Y") {
		t.Fatalf("excluded release rendered:\n%s", content)
	}
}

func TestRunFailsWithoutCandidates(t *testing.T) {
	e := newEnv(t, []sources.Producer{stubProducer{name: "empty"}}, time.Now())

	report := e.pipeline.Run(context.Background(), false)

	if report.Outcome != pipeline.OutcomeFailed {
		t.Fatalf("outcome = %s, want failed", report.Outcome)
	}
	if report.OutputPath != "" {
		t.Fatal("failed run produced output")
	}
	// The empty source is still reported as degraded.
	found := false
	for _, warning := range report.Warnings {
		if warning.Category == pipeline.WarnSourceFetch {
			found = true
		}
	}
	if !found {
		t.Fatalf("no source_fetch warning in %+v", report.Warnings)
	}
}

func TestRunFallsBackWhenFilterEmptiesSet(t *testing.T) {
	// Three well-tagged releases, none matching the include list: the filter
	// would reject all, so the run degrades to the unfiltered set.
	producers := []sources.Producer{
		stubProducer{name: "src1", candidates: []sources.Candidate{
			candidate("A", "X", "src1", "jazz", "fusion", "bebop"),
		}},
	}
	e := newEnv(t, producers, time.Now())

	report := e.pipeline.Run(context.Background(), false)

	if report.Outcome == pipeline.OutcomeFailed {
		t.Fatalf("run failed: %s", report.FailureReason)
	}
	// The fallback count is what the later phases actually consumed.
	if report.Counts.Admitted != 1 {
		t.Fatalf("admitted = %d, want fallback count of 1", report.Counts.Admitted)
	}
	if report.Counts.Final != 1 {
		t.Fatalf("final = %d, want unfiltered fallback of 1", report.Counts.Final)
	}
}

func TestRunLogsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	producers := []sources.Producer{
		stubProducer{name: "src1", candidates: []sources.Candidate{
			candidate("A", "X", "src1", "punk"),
		}},
	}
	cfg := testsupport.NewConfig(t,
		testsupport.WithGenres([]string{"punk"}, nil),
	)
	cfg.Notifications.NtfyTopic = ""

	p, err := pipeline.New(pipeline.Deps{
		Config:    cfg,
		Producers: producers,
		Matcher:   matching.NewSearchLink(),
		Store:     retention.NewStore(cfg.Paths.StateFile, cfg.RetentionWindow(), cfg.LockTimeout(), logger),
		Renderer:  output.NewRenderer(cfg.Paths.OutputDir, logger),
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	report := p.Run(context.Background(), true)
	if report.Outcome == pipeline.OutcomeFailed {
		t.Fatalf("run failed: %s", report.FailureReason)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"run_id"`) {
		t.Fatalf("run_id attribute missing from logs:\n%s", logs)
	}
	if !strings.Contains(logs, report.RunID) {
		t.Fatalf("run identifier %s missing from logs:\n%s", report.RunID, logs)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	producers := []sources.Producer{
		stubProducer{name: "src1", candidates: []sources.Candidate{
			candidate("A", "X", "src1", "punk"),
		}},
	}
	e := newEnv(t, producers, time.Now())

	report := e.pipeline.Run(context.Background(), true)

	if report.Outcome == pipeline.OutcomeFailed {
		t.Fatalf("dry run failed: %s", report.FailureReason)
	}
	if report.OutputPath != "" {
		t.Fatal("dry run reported an output path")
	}
	if _, err := os.Stat(e.cfg.Paths.StateFile); !os.IsNotExist(err) {
		t.Fatal("dry run persisted state")
	}
	if entries, _ := os.ReadDir(e.cfg.Paths.OutputDir); len(entries) != 0 {
		t.Fatal("dry run wrote playlist files")
	}
}

func TestRunPersistsStateAcrossRuns(t *testing.T) {
	producers := []sources.Producer{
		stubProducer{name: "src1", candidates: []sources.Candidate{
			candidate("A", "X", "src1", "punk"),
		}},
	}
	// Placeholders never age, so the persisted run state is what carries
	// over: the second run must see last week's run timestamp.
	first := time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, producers, first)

	if report := e.pipeline.Run(context.Background(), false); report.Outcome == pipeline.OutcomeFailed {
		t.Fatalf("first run failed: %s", report.FailureReason)
	}

	reloaded := retention.NewStore(e.cfg.Paths.StateFile, e.cfg.RetentionWindow(), e.cfg.LockTimeout(), nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload state: %v", err)
	}
	lastRun, ok := reloaded.LastRun()
	if !ok || !lastRun.Equal(first) {
		t.Fatalf("last run = %v (%v), want %v", lastRun, ok, first)
	}
}

func TestRunTrimsFileSourceToCapacity(t *testing.T) {
	entries := []map[string]any{
		{"artist": "A", "title": "One", "genres": []string{"punk"}},
		{"artist": "B", "title": "Two", "genres": []string{"punk"}},
		{"artist": "C", "title": "Three", "genres": []string{"punk"}},
		{"artist": "D", "title": "Four", "genres": []string{"punk"}},
		{"artist": "E", "title": "Five", "genres": []string{"punk"}},
	}
	cfg := testsupport.NewConfig(t,
		testsupport.WithGenres([]string{"punk"}, nil),
		testsupport.WithTargetSize(3),
		testsupport.WithFileSource(t, "picks", entries),
	)
	cfg.Notifications.NtfyTopic = ""

	producers, err := sources.NewProducers(cfg, nil)
	if err != nil {
		t.Fatalf("sources.NewProducers: %v", err)
	}
	p, err := pipeline.New(pipeline.Deps{
		Config:    cfg,
		Producers: producers,
		Matcher:   matching.NewSearchLink(),
		Store:     retention.NewStore(cfg.Paths.StateFile, cfg.RetentionWindow(), cfg.LockTimeout(), nil),
		Renderer:  output.NewRenderer(cfg.Paths.OutputDir, nil),
	})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	report := p.Run(context.Background(), false)

	if report.Outcome == pipeline.OutcomeFailed {
		t.Fatalf("run failed: %s", report.FailureReason)
	}
	if report.Counts.Scraped != 5 || report.Counts.Final != 3 {
		t.Fatalf("scraped/final = %d/%d, want 5/3", report.Counts.Scraped, report.Counts.Final)
	}
}

func TestRunSurvivesCorruptState(t *testing.T) {
	producers := []sources.Producer{
		stubProducer{name: "src1", candidates: []sources.Candidate{
			candidate("A", "X", "src1", "punk"),
		}},
	}
	e := newEnv(t, producers, time.Now())

	if err := os.MkdirAll(filepath.Dir(e.cfg.Paths.StateFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(e.cfg.Paths.StateFile, []byte("{corrupt"), 0o644); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}

	report := e.pipeline.Run(context.Background(), false)

	if report.Outcome == pipeline.OutcomeFailed {
		t.Fatalf("run failed on corrupt state: %s", report.FailureReason)
	}
	found := false
	for _, warning := range report.Warnings {
		if warning.Category == pipeline.WarnStateLoad {
			found = true
		}
	}
	if !found {
		t.Fatalf("no state_load warning in %+v", report.Warnings)
	}
}
