package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rotation/internal/albums"
	"rotation/internal/config"
	"rotation/internal/dedup"
	"rotation/internal/genre"
	"rotation/internal/logging"
	"rotation/internal/matching"
	"rotation/internal/notifications"
	"rotation/internal/output"
	"rotation/internal/playlist"
	"rotation/internal/retention"
	"rotation/internal/selector"
	"rotation/internal/sources"
)

// Deps carries the collaborators one run needs. All fields are required
// except Notifier (defaults to noop via config) and Clock (defaults to
// time.Now).
type Deps struct {
	Config    *config.Config
	Producers []sources.Producer
	Matcher   matching.Matcher
	Store     *retention.Store
	Renderer  *output.Renderer
	Notifier  notifications.Service
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Pipeline runs the weekly curation flow.
type Pipeline struct {
	deps       Deps
	classifier *genre.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// New builds a pipeline from its collaborators.
func New(deps Deps) (*Pipeline, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("pipeline requires config")
	}
	if deps.Matcher == nil || deps.Store == nil || deps.Renderer == nil {
		return nil, fmt.Errorf("pipeline requires matcher, store, and renderer")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(deps.Config)
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		deps:       deps,
		classifier: genre.NewClassifier(deps.Config.Genres.Include, deps.Config.Genres.Exclude),
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		now:        now,
	}, nil
}

// Run executes one curation run. When dryRun is set, no playlist file is
// written and no state is saved.
//
// The state lock is held across the whole load-apply-save cycle; a held lock
// means another run is in flight and the run fails hard rather than risking
// interleaved state writes.
func (p *Pipeline) Run(ctx context.Context, dryRun bool) *Report {
	startedAt := p.now()
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run starting")

	release, err := p.deps.Store.Acquire(ctx)
	if err != nil {
		logger.Error("state lock unavailable", logging.Error(err))
		p.notifyFailure(ctx, "state locked by another run")
		return report.fail(p.now(), fmt.Sprintf("acquire state lock: %v", err))
	}
	defer release()

	if err := p.deps.Store.Load(); err != nil {
		logger.Warn("state load failed, continuing with empty store", logging.Error(err))
		report.warn(WarnStateLoad, err.Error())
	}

	// Phase 1: fetch candidates.
	candidates, degraded := sources.FetchAll(ctx, p.deps.Producers, logging.WithContext(ctx, p.deps.Logger))
	report.Counts.Scraped = len(candidates)
	for _, name := range degraded {
		report.warn(WarnSourceFetch, fmt.Sprintf("source %s produced no candidates", name))
	}
	if len(degraded) > 0 {
		if err := p.deps.Notifier.NotifySourcesDegraded(ctx, degraded); err != nil {
			logger.Warn("degraded-sources notification failed", logging.Error(err))
		}
	}
	if len(candidates) == 0 {
		logger.Error("no candidates from any source")
		p.notifyFailure(ctx, "no candidates from any source")
		return report.fail(p.now(), "no candidates from any source")
	}

	// Phase 2: genre admission.
	admitted := p.admit(candidates)
	if len(admitted) == 0 {
		logger.Warn("genre filter admitted nothing, using all candidates")
		admitted = candidates
	}
	report.Counts.Admitted = len(admitted)
	logger.Info("genre filter applied",
		logging.String(logging.FieldPhase, "genre"),
		logging.Int("in", len(candidates)),
		logging.Int("out", len(admitted)))

	// Phase 3: matching.
	items, resolvedCount := p.match(ctx, admitted)
	report.Counts.Resolved = resolvedCount
	report.Counts.Unresolved = len(admitted) - resolvedCount
	if report.Counts.Unresolved > 0 {
		report.warn(WarnMatch, fmt.Sprintf("%d releases unresolved; manual search required", report.Counts.Unresolved))
	}
	if len(items) == 0 {
		logger.Error("matching produced no playlist items")
		p.notifyFailure(ctx, "matching produced no playlist items")
		return report.fail(p.now(), "matching produced no playlist items")
	}
	logger.Info("matching complete",
		logging.String(logging.FieldPhase, "match"),
		logging.Int("resolved", resolvedCount),
		logging.Int("unresolved", report.Counts.Unresolved))

	// Phase 4: dedup and prioritize, then group by album.
	priority, unique := dedup.Merge(items)
	report.Counts.Unique = len(unique)
	report.Counts.Priority = len(priority)
	grouped := albums.Regroup(unique)
	logger.Info("deduplicated",
		logging.String(logging.FieldPhase, "dedup"),
		logging.Int("unique", len(unique)),
		logging.Int("priority", len(priority)))

	// Phase 5: retention.
	now := p.now()
	current := p.deps.Store.Apply(grouped, now)
	report.Counts.Retained = len(current)

	// Phase 6: trim to capacity, regroup, restrict priority to survivors.
	final := selector.Trim(current, priority, p.deps.Config.Playlist.TargetSize)
	final = albums.Regroup(final)
	finalPriority := restrictPriority(priority, final)
	report.Counts.Final = len(final)
	logger.Info("playlist finalized",
		logging.String(logging.FieldPhase, "trim"),
		logging.Int(logging.FieldCount, len(final)),
		logging.Int("priority", len(finalPriority)))

	if dryRun {
		logger.Info("dry run, skipping output and state save")
		return report.finish(p.now())
	}

	// Phase 7: render output, then persist state.
	outputPath, err := p.deps.Renderer.Render(final, finalPriority, now)
	if err != nil {
		logger.Error("output rendering failed", logging.Error(err))
		p.notifyFailure(ctx, "output rendering failed")
		return report.fail(p.now(), fmt.Sprintf("render output: %v", err))
	}
	report.OutputPath = outputPath

	if err := p.deps.Store.Save(); err != nil {
		// The playlist is already written; only next week's continuity is
		// at stake.
		logger.Warn("state save failed", logging.Error(err))
		report.warn(WarnStateSave, err.Error())
	}

	if err := p.deps.Notifier.NotifyRunCompleted(ctx, len(final), len(finalPriority), outputPath); err != nil {
		logger.Warn("completion notification failed", logging.Error(err))
	}

	logger.Info("run complete",
		logging.String(logging.FieldPath, outputPath),
		logging.Int(logging.FieldCount, len(final)))
	return report.finish(p.now())
}

func (p *Pipeline) admit(candidates []sources.Candidate) []sources.Candidate {
	admitted := make([]sources.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if p.classifier.Admit(candidate.Genres) {
			admitted = append(admitted, candidate)
		}
	}
	return admitted
}

func (p *Pipeline) match(ctx context.Context, candidates []sources.Candidate) ([]playlist.Track, int) {
	var items []playlist.Track
	resolvedCount := 0
	for _, candidate := range candidates {
		resolutions := p.deps.Matcher.Match(ctx, candidate)
		allResolved := len(resolutions) > 0
		for _, resolution := range resolutions {
			items = append(items, resolution.Track)
			if !resolution.Resolved {
				allResolved = false
			}
		}
		if allResolved {
			resolvedCount++
		}
	}
	return items, resolvedCount
}

func restrictPriority(priority, final []playlist.Track) []playlist.Track {
	finalIDs := make(map[string]struct{}, len(final))
	for _, item := range final {
		finalIDs[item.ID] = struct{}{}
	}
	kept := make([]playlist.Track, 0, len(priority))
	for _, item := range priority {
		if _, ok := finalIDs[item.ID]; ok {
			kept = append(kept, item)
		}
	}
	return kept
}

func (p *Pipeline) notifyFailure(ctx context.Context, reason string) {
	if err := p.deps.Notifier.NotifyRunFailed(ctx, reason); err != nil {
		p.logger.Warn("failure notification failed", logging.Error(err))
	}
}
