// Package textnorm provides text normalization utilities for identity keys,
// genre-tag cleanup, and search-query construction.
//
// The primary use cases are:
//   - Case-folding artist/title/album strings so comparisons and grouping
//     keys are insensitive to case and stray whitespace
//   - Normalizing scraped genre tags into a canonical lowercase form
//   - Building the deterministic slug behind manual placeholder identifiers
//
// Folding uses Unicode case folding rather than plain lowercasing so keys
// survive non-ASCII artist names.
package textnorm
