package retention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"rotation/internal/logging"
	"rotation/internal/playlist"
)

// Sentinel markers for classifying store failures. Both are recoverable: a
// failed load degrades to an empty store, a failed save costs next week's
// continuity but never this week's playlist.
var (
	ErrLoad = errors.New("state load error")
	ErrSave = errors.New("state save error")
)

const lockRetryDelay = 250 * time.Millisecond

// State is the persisted store shape. Unknown top-level keys in the file are
// ignored on decode for forward compatibility.
type State struct {
	TrackHistory map[string]string `json:"track_history"`
	LastRun      *string           `json:"last_run"`
}

// Entry is one first-seen record, surfaced for the state CLI.
type Entry struct {
	ID        string
	FirstSeen time.Time
}

// Store manages the retention state file.
type Store struct {
	path        string
	window      time.Duration
	lockTimeout time.Duration
	logger      *slog.Logger

	mu    sync.RWMutex
	state State
	lock  *flock.Flock
}

// NewStore builds a store over the given state file. Nothing is read until
// Load is called.
func NewStore(path string, window, lockTimeout time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		path:        path,
		window:      window,
		lockTimeout: lockTimeout,
		logger:      logging.NewComponentLogger(logger, "retention"),
		state:       emptyState(),
		lock:        flock.New(path + ".lock"),
	}
}

func emptyState() State {
	return State{TrackHistory: make(map[string]string)}
}

// Acquire takes the exclusive state lock, waiting up to the configured
// timeout. The returned release function must be called once the
// load-apply-save cycle is complete.
func (s *Store) Acquire(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create state directory: %w", ErrLoad, err)
	}

	ok, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: acquire state lock: %w", ErrLoad, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: state file %s is locked by another run", ErrLoad, s.path)
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release state lock", logging.Error(err))
		}
	}, nil
}

// Load reads the state file into memory. A missing file yields an empty
// store; any other failure is reported wrapped in ErrLoad, and the caller may
// continue with the empty store the receiver now holds.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptyState()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no state file, starting empty", logging.String(logging.FieldPath, s.path))
			return nil
		}
		return fmt.Errorf("%w: read %s: %w", ErrLoad, s.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrLoad, s.path, err)
	}
	if loaded.TrackHistory == nil {
		loaded.TrackHistory = make(map[string]string)
	}
	s.state = loaded

	s.logger.Debug("loaded retention state",
		logging.Int(logging.FieldCount, len(s.state.TrackHistory)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// Save persists the state atomically via a temp file and rename. Failures are
// wrapped in ErrSave.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal state: %w", ErrSave, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create state directory: %w", ErrSave, err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: write temp file: %w", ErrSave, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename temp file: %w", ErrSave, err)
	}

	s.logger.Debug("saved retention state",
		logging.Int(logging.FieldCount, len(s.state.TrackHistory)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// Apply runs the retention pass over one batch of merged tracks.
//
// Every history entry older than the window is purged first, whether or not
// its track appears in items, so the store shrinks on every call. A track
// purged for age in this pass is dropped even when items resupplies it: it
// is not re-recorded, so a release cannot re-enter the rotation by being
// re-surfaced every run. Manual placeholders pass through without being
// recorded or aged. Other tracks are recorded on first sighting, never
// refreshed afterwards, and kept while their age is within the window
// (inclusive), with WeeksInPlaylist set to whole weeks since first sighting.
func (s *Store) Apply(items []playlist.Track, now time.Time) []playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	history := s.state.TrackHistory

	agedOut := make(map[string]struct{})
	purged := 0
	for id, stamp := range history {
		firstSeen, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			// Unreadable record: drop it; a resupplied track restarts fresh.
			delete(history, id)
			purged++
			continue
		}
		if firstSeen.Before(cutoff) {
			delete(history, id)
			agedOut[id] = struct{}{}
			purged++
		}
	}
	if purged > 0 {
		s.logger.Info("purged expired history entries", logging.Int(logging.FieldCount, purged))
	}

	nowStamp := now.Format(time.RFC3339)
	current := make([]playlist.Track, 0, len(items))
	for _, item := range items {
		if item.IsManual() {
			current = append(current, item)
			continue
		}

		if _, expired := agedOut[item.ID]; expired {
			s.logger.Debug("dropping aged-out track",
				logging.String("track_id", item.ID),
				logging.String("artist", item.Artist))
			continue
		}

		if _, seen := history[item.ID]; !seen {
			history[item.ID] = nowStamp
		}

		firstSeen, err := time.Parse(time.RFC3339, history[item.ID])
		if err != nil {
			history[item.ID] = nowStamp
			firstSeen = now
		}
		item.WeeksInPlaylist = int(now.Sub(firstSeen).Hours() / 24 / 7)
		current = append(current, item)
	}

	s.state.LastRun = &nowStamp

	s.logger.Info("retention applied",
		logging.Int("incoming", len(items)),
		logging.Int("current", len(current)))
	return current
}

// Entries returns the history sorted by first-seen descending, newest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.state.TrackHistory))
	for id, stamp := range s.state.TrackHistory {
		firstSeen, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{ID: id, FirstSeen: firstSeen})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FirstSeen.Equal(entries[j].FirstSeen) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].FirstSeen.After(entries[j].FirstSeen)
	})
	return entries
}

// Count returns the number of history entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.TrackHistory)
}

// Remove deletes one history entry by track identifier.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.TrackHistory[id]; !ok {
		return fmt.Errorf("track %q not found in history", id)
	}
	delete(s.state.TrackHistory, id)
	return nil
}

// Clear drops the whole history. LastRun is preserved.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TrackHistory = make(map[string]string)
}

// LastRun reports the recorded completion time of the previous run.
func (s *Store) LastRun() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.LastRun == nil {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, *s.state.LastRun)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
