// Package engine wires the provider, search aggregator, collection store, and
// exporters into the entry points used by the CLI and the HTTP API.
//
// Open builds every component from configuration, takes a lock on the data
// directory for disk-backed stores, loads the collection, and runs the
// backfill migration once. Mutating entry points are serialized by a single
// mutex; searches run concurrently.
package engine
