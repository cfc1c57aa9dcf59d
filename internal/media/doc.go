// Package media defines the vocabulary shared by every NextFlix component:
// media kinds, user ratings, and the normalized search Result that flows from
// the provider through the search aggregator into the collection.
//
// Kinds and ratings are closed enumerations. Parse helpers accept the loose
// spellings users type on the command line and the spellings TMDB uses on the
// wire, and reject everything else so free text never reaches the collection.
package media
