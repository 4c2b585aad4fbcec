// Package config loads, normalizes, and validates the TOML configuration for
// the coursegen service. Values resolve in layers: repository defaults, then
// the config file, then environment overrides (including OPENAI_API_KEY).
// A .env file in the working directory is honored when present.
package config
