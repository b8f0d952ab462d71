// Package dedup merges duplicate tracks across sources and extracts
// multi-source priority items.
package dedup

import (
	"sort"

	"rotation/internal/playlist"
)

// Merge groups items by identifier, unions each group's provenance, and
// returns the multi-source groups (priority) alongside the deduplicated list
// (unique).
//
// Groups are emitted in first-occurrence order of their identifier, and a
// merged track takes its canonical fields from the group's first member, so
// merging is commutative within a group; inter-group input order matters only
// for priority tie-breaks. Priority is sorted by source count descending with
// a stable sort, so equal counts keep first-seen group order.
func Merge(items []playlist.Track) (priority, unique []playlist.Track) {
	groups := make(map[string][]playlist.Track, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := groups[item.ID]; !ok {
			order = append(order, item.ID)
		}
		groups[item.ID] = append(groups[item.ID], item)
	}

	priority = make([]playlist.Track, 0)
	unique = make([]playlist.Track, 0, len(order))
	for _, id := range order {
		group := groups[id]
		merged := mergeGroup(group)
		unique = append(unique, merged)
		if len(group) > 1 {
			priority = append(priority, merged)
		}
	}

	sort.SliceStable(priority, func(i, j int) bool {
		return len(priority[i].Sources) > len(priority[j].Sources)
	})

	return priority, unique
}

func mergeGroup(group []playlist.Track) playlist.Track {
	merged := group[0]

	set := make(map[string]struct{}, len(group))
	for _, member := range group {
		if len(member.Sources) == 0 && member.Source != "" {
			set[member.Source] = struct{}{}
			continue
		}
		for _, src := range member.Sources {
			set[src] = struct{}{}
		}
	}

	sources := make([]string, 0, len(set))
	for src := range set {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	merged.Sources = sources
	return merged
}
