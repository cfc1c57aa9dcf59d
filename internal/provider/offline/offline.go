// Package offline implements the provider port over a fixed, deterministic
// catalogue. The engine selects it when no TMDB credential (or a placeholder
// such as "demo_key") is configured so searches, enrichment, and tests behave
// the same shape-wise without network access.
package offline

import (
	"context"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/provider"
	"github.com/baliomega/nextflix/internal/services"
)

// PageSize mirrors the row count TMDB serves per page, scaled to the catalogue.
const PageSize = 10

// Provider serves the built-in catalogue.
type Provider struct {
	byID map[int64]title
}

var _ provider.Provider = (*Provider)(nil)

// New returns a provider over the built-in catalogue.
func New() *Provider {
	byID := make(map[int64]title, len(catalogue))
	for _, t := range catalogue {
		byID[t.id] = t
	}
	return &Provider{byID: byID}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "offline"
}

// SearchMulti returns catalogue rows whose title or overview contains every
// query word, accent- and case-insensitively, in catalogue order.
func (p *Provider) SearchMulti(ctx context.Context, query string, page int) (provider.Page, error) {
	if err := ctx.Err(); err != nil {
		return provider.Page{}, services.Wrap(services.ErrProviderUnavailable, "offline", "search", "context done", err)
	}
	words := strings.Fields(fold(query))
	if len(words) == 0 {
		return provider.Page{}, services.Wrap(services.ErrValidation, "offline", "search", "query must not be empty", nil)
	}
	if page < 1 {
		page = 1
	}

	var matches []provider.Candidate
	for _, t := range catalogue {
		if matchesAll(fold(t.name+" "+t.overview), words) {
			matches = append(matches, t.candidate())
		}
	}

	totalPages := (len(matches) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	out := provider.Page{
		Number:       page,
		TotalPages:   totalPages,
		TotalResults: len(matches),
		Candidates:   []provider.Candidate{},
	}
	start := (page - 1) * PageSize
	if start < len(matches) {
		end := min(start+PageSize, len(matches))
		out.Candidates = matches[start:end]
	}
	return out, nil
}

// Credits returns the catalogue credits for id.
func (p *Provider) Credits(ctx context.Context, id int64, kind media.Kind) (provider.Credits, error) {
	if err := ctx.Err(); err != nil {
		return provider.Credits{}, services.Wrap(services.ErrProviderUnavailable, "offline", "credits", "context done", err)
	}
	t, ok := p.byID[id]
	if !ok || t.mediaType != kind.ProviderType() {
		return provider.Credits{}, services.Wrap(services.ErrProviderUnavailable, "offline", "credits", "title not in catalogue", nil)
	}
	credits := provider.Credits{
		Cast: append([]string{}, t.cast...),
		Crew: make([]provider.CrewMember, 0, len(t.crew)),
	}
	for _, c := range t.crew {
		credits.Crew = append(credits.Crew, provider.CrewMember{Name: c[0], Job: c[1]})
	}
	return credits, nil
}

func (t title) candidate() provider.Candidate {
	return provider.Candidate{
		ProviderID:   t.id,
		MediaType:    t.mediaType,
		Title:        t.name,
		PosterPath:   t.poster,
		BackdropPath: t.backdrop,
		Overview:     t.overview,
		ReleaseDate:  t.releaseDate,
		VoteAverage:  t.vote,
		GenreIDs:     append([]int{}, t.genreIDs...),
	}
}

func matchesAll(haystack string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

func fold(value string) string {
	return strings.ToLower(unidecode.Unidecode(value))
}
