// Package config loads, normalizes, and validates rotation configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ROTATION_NTFY_TOPIC. The Config type centralizes every knob the CLI needs:
// candidate sources, genre admission lists, retention and playlist sizing,
// matching mode, and output locations.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
