// Command nextflix is the command-line front end for a personal movie and
// series watch log. It searches TMDB (or the built-in offline catalogue when
// no API key is configured), records titles with a love/up/down verdict,
// lists and filters the collection, and exports it as CSV, JSON, or text.
//
// `nextflix serve` runs the HTTP API used by the web front end. Disk-backed
// storage is single-writer, so other commands fail fast while serve holds the
// data directory; use the API instead.
package main
