// Package notifications delivers run lifecycle events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set, so
// the pipeline never branches on whether notifications are enabled. Extend
// this package if you need alternative transports; pipeline code depends
// only on the Service interface.
package notifications
