// Package tmdb provides the TMDB API client behind the provider port.
//
// It authenticates requests with an API key and exposes multi search with
// explicit paging plus credits lookups. Series credits come from the show
// details endpoint with credits appended, so creators and executive producers
// arrive in one round trip. Failures are tagged with services markers
// (ErrProviderUnavailable, ErrTimeout) so callers can degrade without string
// matching. Options allow tests to supply custom HTTP clients.
package tmdb
