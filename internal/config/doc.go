// Package config loads, normalizes, and validates NextFlix configuration data.
//
// It supplies repository defaults (XDG data and config locations), expands
// user paths including tilde shortcuts, reads TOML files, and honours
// environment fallbacks such as TMDB_API_KEY and NEXTFLIX_REDIS_PASSWORD. The
// Config type centralizes every knob the CLI, the HTTP API, and the engine
// need, so storage paths and provider credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
