// Package sources produces raw release candidates for one curation run.
//
// A Producer wraps one configured source: an RSS/Atom feed, an HTML page
// scraped with CSS selectors, or a local JSON file of hand-picked releases.
// FetchAll runs producers concurrently but reassembles their candidates in
// configured source order, so downstream dedup tie-breaks see a deterministic
// input ordering regardless of fetch completion order. A failing source
// degrades to zero candidates and never aborts the run.
package sources
