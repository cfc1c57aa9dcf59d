// Package provider defines the port through which the engine reaches an
// external title-search service, plus a circuit breaker decorator shared by
// every implementation.
//
// Implementations live in subpackages: tmdb talks to The Movie Database and
// offline serves a fixed catalogue when no credential is configured. Both
// return the same shapes so callers cannot tell them apart.
package provider

import (
	"context"

	"github.com/baliomega/nextflix/internal/media"
)

// Candidate is one raw multi-search row before filtering or enrichment.
type Candidate struct {
	ProviderID   int64
	MediaType    string
	Title        string
	PosterPath   string
	BackdropPath string
	Overview     string
	ReleaseDate  string
	VoteAverage  float64
	GenreIDs     []int
}

// Page is one page of multi-search results.
type Page struct {
	Number       int
	TotalPages   int
	TotalResults int
	Candidates   []Candidate
}

// CrewMember is a single crew credit.
type CrewMember struct {
	Name string
	Job  string
}

// Credits lists cast names in billing order and crew with jobs.
type Credits struct {
	Cast []string
	Crew []CrewMember
}

// Provider is the search and credits service consumed by the engine.
type Provider interface {
	// SearchMulti returns one page (1-based) of mixed movie, series, and
	// person results for query.
	SearchMulti(ctx context.Context, query string, page int) (Page, error)
	// Credits returns cast and crew for a title.
	Credits(ctx context.Context, id int64, kind media.Kind) (Credits, error)
	// Name identifies the implementation in logs and metrics.
	Name() string
}
