// Package search aggregates provider results for a free-text query.
//
// Aggregator.Search fetches several result pages concurrently, merges them in
// provider order, drops rows that are not movies or series or that lack a
// rating, artwork, or pass the content classifier, enriches a bounded prefix
// with credits, and resolves genre codes. Every provider call runs under its
// own timeout and the whole search is bounded as well.
//
// Debouncer is a caller-side helper: the aggregator is stateless per call and
// knows nothing about superseded queries.
package search
