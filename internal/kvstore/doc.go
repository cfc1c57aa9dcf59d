// Package kvstore persists the collection through a small string key-value
// port.
//
// Backends:
//   - sqlite: the default, a single kv table in a WAL-mode database
//   - file: one JSON object rewritten atomically and guarded by a file lock
//   - redis: string keys under a configurable prefix
//   - memory: process-local, used by tests and ephemeral runs
//
// Open selects the backend from the [storage] config section.
package kvstore
