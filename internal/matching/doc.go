// Package matching resolves scraped candidates into playlist tracks.
//
// Resolution is a tagged result, never an error: a candidate either resolves
// to addressable tracks or becomes an unresolved placeholder carrying the raw
// artist/title and a search URL. Downstream stages never special-case
// failures; placeholders flow through dedup and trimming like any track and
// only the retention store treats them differently.
package matching
