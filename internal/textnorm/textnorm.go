package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
)

// maxTagLength drops runaway scraped strings that are clearly not genre tags
// (review blurbs, CSS fragments).
const maxTagLength = 30

// Fold returns a case-folded copy of s with surrounding whitespace trimmed
// and interior whitespace runs collapsed to single spaces.
func Fold(s string) string {
	return cases.Fold().String(CollapseWhitespace(s))
}

// CollapseWhitespace trims s and collapses interior whitespace runs to single
// spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Slug builds the deterministic identity slug for an artist/title pair:
// case-folded, whitespace-collapsed "artist title". Two sources naming the
// same release produce the same slug regardless of casing or spacing.
func Slug(artist, title string) string {
	return Fold(artist + " " + title)
}

// NormalizeTags canonicalizes scraped genre tags: lowercase, trimmed, with
// hyphens and underscores replaced by spaces. Empty results, overlong strings,
// and duplicates are dropped. Order of first occurrence is preserved.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeTag canonicalizes a single genre tag. Returns "" when the tag
// normalizes to nothing usable.
func NormalizeTag(tag string) string {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = CollapseWhitespace(normalized)
	if normalized == "" || len(normalized) >= maxTagLength {
		return ""
	}
	return normalized
}
