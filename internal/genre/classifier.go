// Package genre implements the admission filter over candidate genre tags.
package genre

import "strings"

// offProfileTagThreshold is the tag count at which a release with no include
// match is considered well-tagged but off-profile and rejected.
const offProfileTagThreshold = 3

// Classifier decides whether a release's genre tags admit it into the
// candidate pool. The zero value admits everything; construct with
// NewClassifier to apply include/exclude lists.
type Classifier struct {
	include []string
	exclude []string
}

// NewClassifier builds a classifier from explicit include and exclude lists.
// Patterns are normalized once here; empty entries are dropped.
func NewClassifier(include, exclude []string) *Classifier {
	return &Classifier{
		include: normalizePatterns(include),
		exclude: normalizePatterns(exclude),
	}
}

// Admit reports whether a release carrying the given tags should be kept.
//
// Decision order, first match wins:
//  1. any tag matches an exclude entry: reject
//  2. no tags: accept (trust the source's curation)
//  3. any tag matches an include entry: accept
//  4. three or more tags, none matching: reject (well-tagged but off-profile)
//  5. otherwise: accept (sparse signal, avoid false negatives)
//
// Matching is case-insensitive substring in either direction: the tag may
// contain the pattern or the pattern may contain the tag.
func (c *Classifier) Admit(tags []string) bool {
	if c == nil {
		return true
	}

	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		normalized = append(normalized, tag)
	}

	for _, tag := range normalized {
		if matchesAny(tag, c.exclude) {
			return false
		}
	}

	if len(normalized) == 0 {
		return true
	}

	for _, tag := range normalized {
		if matchesAny(tag, c.include) {
			return true
		}
	}

	return len(normalized) < offProfileTagThreshold
}

func matchesAny(tag string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(tag, pattern) || strings.Contains(pattern, tag) {
			return true
		}
	}
	return false
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		out = append(out, pattern)
	}
	return out
}
