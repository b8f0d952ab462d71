// Package retention persists first-seen timestamps for playlist tracks and
// ages tracks out of the rotation a fixed window after their first sighting.
//
// The window is fixed-TTL-from-first-seen, not an LRU: re-sighting a track
// never refreshes its timestamp, so no recommendation can stay in the
// playlist longer than the configured window no matter how often sources
// re-surface it. Manual placeholder tracks bypass the store entirely.
//
// State lives in a JSON file owned exclusively by this package. Concurrent
// runs are excluded with a flock lock file held across the whole
// load-apply-save cycle; writes go through a temp file and rename.
package retention
