// Package collection owns the user's watch log: an ordered, newest-first
// sequence of entries persisted through a kvstore.Store.
//
// The store enforces load-before-save ordering. Mutations made before Load
// completes are applied in memory but never written, so an empty initial
// state cannot overwrite data that has not been read yet. After Load every
// mutation rewrites the full sequence under the nextflix-data key.
//
// Payloads keep the field names of the original browser data (dateWatched,
// tmdb_id, tmdbRating) so existing exports load unchanged, and numeric ids
// from that era are accepted as opaque strings.
package collection
