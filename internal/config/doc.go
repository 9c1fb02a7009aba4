// Package config loads, normalizes, and validates ytwhisper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// YTWHISPER_SCRATCH_DIR. The Config type centralizes every knob the CLI
// needs: where subtitles land, where audio is staged, how many downloads run
// at once, and which Whisper model and options are used.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical option values, and clear validation errors.
package config
