package pipeline

import "time"

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarnings Outcome = "success_with_warnings"
	OutcomeFailed   Outcome = "failed"
)

// WarningCategory identifies the recoverable failure class a warning
// belongs to.
type WarningCategory string

const (
	WarnSourceFetch WarningCategory = "source_fetch"
	WarnMatch       WarningCategory = "match"
	WarnStateLoad   WarningCategory = "state_load"
	WarnStateSave   WarningCategory = "state_save"
)

// Warning is one recoverable failure surfaced in the run summary.
type Warning struct {
	Category WarningCategory
	Message  string
}

// Counts carries per-phase item counts for the run summary.
type Counts struct {
	Scraped    int
	Admitted   int
	Resolved   int
	Unresolved int
	Unique     int
	Priority   int
	Retained   int
	Final      int
}

// Report is the structured result of one run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    Outcome
	Counts     Counts
	Warnings   []Warning
	// OutputPath is empty for dry runs and failed runs.
	OutputPath string
	// FailureReason is set only when Outcome is OutcomeFailed.
	FailureReason string
}

func (r *Report) warn(category WarningCategory, message string) {
	r.Warnings = append(r.Warnings, Warning{Category: category, Message: message})
}

func (r *Report) finish(now time.Time) *Report {
	r.FinishedAt = now
	if r.Outcome == OutcomeFailed {
		return r
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarnings
	} else {
		r.Outcome = OutcomeSuccess
	}
	return r
}

func (r *Report) fail(now time.Time, reason string) *Report {
	r.Outcome = OutcomeFailed
	r.FailureReason = reason
	r.FinishedAt = now
	return r
}
