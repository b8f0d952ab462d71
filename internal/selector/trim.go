// Package selector trims playlists to capacity while preserving priority
// items.
package selector

import "rotation/internal/playlist"

// Trim bounds current to at most target tracks. When current already fits it
// is returned unchanged. Otherwise priority members of current survive ahead
// of everything else: the result is the priority members (in current order)
// followed by as many non-priority tracks as fit. When the priority members
// alone exceed capacity, the priority list's own order (source count
// descending with first-seen tie-break) decides which of them survive.
//
// Priority tracks are never displaced by non-priority tracks.
func Trim(current, priority []playlist.Track, target int) []playlist.Track {
	if len(current) <= target {
		return current
	}

	priorityIDs := make(map[string]struct{}, len(priority))
	for _, item := range priority {
		priorityIDs[item.ID] = struct{}{}
	}

	priorityInCurrent := make([]playlist.Track, 0, len(priority))
	others := make([]playlist.Track, 0, len(current))
	for _, item := range current {
		if _, ok := priorityIDs[item.ID]; ok {
			priorityInCurrent = append(priorityInCurrent, item)
		} else {
			others = append(others, item)
		}
	}

	slots := target - len(priorityInCurrent)
	if slots > 0 {
		return append(priorityInCurrent, others[:slots]...)
	}

	// The retention pass annotated the copies in current, so survivors are
	// taken from current keyed by the priority list's ordering.
	byID := make(map[string]playlist.Track, len(priorityInCurrent))
	for _, item := range priorityInCurrent {
		byID[item.ID] = item
	}
	survivors := make([]playlist.Track, 0, target)
	for _, item := range priority {
		if len(survivors) == target {
			break
		}
		if kept, ok := byID[item.ID]; ok {
			survivors = append(survivors, kept)
		}
	}
	return survivors
}
