// Package pipeline orchestrates one curation run end to end: fetch
// candidates, filter by genre, match, deduplicate, apply retention, trim to
// capacity, regroup albums, render the playlist, and persist state.
//
// Recoverable failures (a dead source, an unreadable state file, a failed
// save) never escape Run; they are collected as categorized warnings on the
// structured Report. Run returns an error only when it cannot produce a
// playlist at all. Exit-code mapping is the caller's job.
package pipeline
