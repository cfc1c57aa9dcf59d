// Package logging assembles structured slog loggers and formatting helpers used
// across NextFlix components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing (including size-rotated log files), and exposes context-aware
// helpers so engine code can tag log lines with entry IDs, search queries, and
// correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
