// Package config loads, normalizes, and validates hdrmeta configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads an optional TOML file. Command-line flags override
// individual values after Load returns; callers re-run Validate once flags
// are applied so every batch starts from a checked configuration.
package config
