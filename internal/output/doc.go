// Package output renders the finished playlist into a dated text file.
//
// The artifact is built for a human finishing the playlist by hand: a
// priority section listing multi-source picks first, then the full playlist
// with album headers, carry-over week annotations, and either the track URI
// or a search link per entry.
package output
