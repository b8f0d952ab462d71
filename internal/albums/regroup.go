// Package albums reorders playlists so same-album tracks stay contiguous.
package albums

import (
	"rotation/internal/playlist"
	"rotation/internal/textnorm"
)

type albumKey struct {
	artist string
	album  string
}

// Regroup returns a permutation of items in which tracks sharing an
// (artist, album) key are contiguous. Keys are case-folded; key order follows
// the first occurrence of each key in the input, and within a key the input
// order is preserved.
//
// Tracks with an empty album share the (artist, "") key, so all of an
// artist's standalone singles coalesce into one contiguous block. Trimming
// can interleave album-adjacent tracks, so the pipeline re-applies Regroup
// after the selector runs.
func Regroup(items []playlist.Track) []playlist.Track {
	if len(items) <= 1 {
		return append([]playlist.Track(nil), items...)
	}

	groups := make(map[albumKey][]playlist.Track, len(items))
	order := make([]albumKey, 0, len(items))
	for _, item := range items {
		key := albumKey{
			artist: textnorm.Fold(item.Artist),
			album:  textnorm.Fold(item.Album),
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	grouped := make([]playlist.Track, 0, len(items))
	for _, key := range order {
		grouped = append(grouped, groups[key]...)
	}
	return grouped
}
