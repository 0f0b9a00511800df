// Package config loads, normalizes, and validates sceneforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// SCENEFORGE_FFMPEG and SCENEFORGE_TEMP_DIR. Every timing constant the
// composition pipeline depends on (probe fallback seconds, estimate clamp
// bounds, caption gap and minimum duration) lives here rather than inline in
// the components.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
