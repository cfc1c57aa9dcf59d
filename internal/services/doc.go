// Package services defines shared utilities consumed by the engine components
// and their presentation collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp entry IDs, search queries, client sessions,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper, so callers can classify
//     failures with errors.Is and the HTTP API can map them onto status codes.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the engine.
package services
