package albums_test

import (
	"testing"

	"rotation/internal/albums"
	"rotation/internal/playlist"
)

func albumTrack(id, artist, album string) playlist.Track {
	return playlist.Track{ID: id, Artist: artist, Title: id, Album: album}
}

func ids(items []playlist.Track) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestRegroupMakesAlbumTracksContiguous(t *testing.T) {
	items := []playlist.Track{
		albumTrack("a1", "Hotline TNT", "Cartwheel"),
		albumTrack("b1", "Wednesday", "Rat Saw God"),
		albumTrack("a2", "Hotline TNT", "Cartwheel"),
		albumTrack("b2", "Wednesday", "Rat Saw God"),
		albumTrack("a3", "Hotline TNT", "Cartwheel"),
	}

	got := ids(albums.Regroup(items))
	want := []string{"a1", "a2", "a3", "b1", "b2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRegroupIsPermutation(t *testing.T) {
	items := []playlist.Track{
		albumTrack("a1", "A", "X"),
		albumTrack("b1", "B", "Y"),
		albumTrack("a2", "A", "X"),
		albumTrack("c1", "C", ""),
	}

	got := albums.Regroup(items)
	if len(got) != len(items) {
		t.Fatalf("length changed: %d -> %d", len(items), len(got))
	}
	seen := make(map[string]int)
	for _, item := range got {
		seen[item.ID]++
	}
	for _, item := range items {
		if seen[item.ID] != 1 {
			t.Fatalf("item %s count = %d in output", item.ID, seen[item.ID])
		}
	}
}

func TestRegroupKeyIsCaseInsensitive(t *testing.T) {
	items := []playlist.Track{
		albumTrack("a1", "MSPAINT", "Post-American"),
		albumTrack("b1", "Scowl", "Psychic Dance Routine"),
		albumTrack("a2", "mspaint", "POST-AMERICAN"),
	}

	got := ids(albums.Regroup(items))
	want := []string{"a1", "a2", "b1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRegroupCoalescesEmptyAlbumSingles(t *testing.T) {
	items := []playlist.Track{
		albumTrack("s1", "billy woods", ""),
		albumTrack("x1", "Ratboys", "The Window"),
		albumTrack("s2", "billy woods", ""),
	}

	got := ids(albums.Regroup(items))
	want := []string{"s1", "s2", "x1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v: singles with empty album must share a block", got, want)
		}
	}
}

func TestRegroupPreservesIntraGroupOrder(t *testing.T) {
	items := []playlist.Track{
		albumTrack("a3", "A", "X"),
		albumTrack("a1", "A", "X"),
		albumTrack("a2", "A", "X"),
	}

	got := ids(albums.Regroup(items))
	want := []string{"a3", "a1", "a2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("intra-group order changed: %v", got)
		}
	}
}

func TestRegroupEmptyAndSingle(t *testing.T) {
	if got := albums.Regroup(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	single := []playlist.Track{albumTrack("a1", "A", "X")}
	if got := albums.Regroup(single); len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("unexpected single result: %v", got)
	}
}
