// Package export renders the full collection as CSV, structured JSON, and
// plain text, and writes those payloads to a directory through afero.
//
// Renderers are pure functions of the entries and the export time. The JSON
// document is the full-fidelity format: ParseJSON reads it back into the
// exact entry sequence, and the collection store can import it.
package export
