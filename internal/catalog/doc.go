// Package catalog persists confirmed release resolutions in SQLite.
//
// Entries map a case-folded (artist, title) pair to an addressable track
// identifier, optionally grouped under an album with a track position. The
// catalog matcher consults the store to resolve candidates that would
// otherwise become manual search placeholders; the CLI maintains it as the
// curator confirms searches week over week.
package catalog
