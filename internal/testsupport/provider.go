package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/provider"
	"github.com/baliomega/nextflix/internal/services"
)

// FakeProvider is a scriptable provider.Provider for tests. Pages are keyed
// by page number; a missing page is empty. Errors set in PageErrors or
// CreditErrors are returned for that page or provider id.
type FakeProvider struct {
	mu sync.Mutex

	Pages        map[int][]provider.Candidate
	PageErrors   map[int]error
	Credit       map[int64]provider.Credits
	CreditErrors map[int64]error
	// Block, when set, is waited on by every call until it closes or the
	// call's context ends.
	Block chan struct{}

	searchCalls  []int
	creditsCalls []int64
}

var _ provider.Provider = (*FakeProvider)(nil)

// NewFakeProvider returns an empty fake.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Pages:        make(map[int][]provider.Candidate),
		PageErrors:   make(map[int]error),
		Credit:       make(map[int64]provider.Credits),
		CreditErrors: make(map[int64]error),
	}
}

// Name identifies the fake.
func (f *FakeProvider) Name() string { return "fake" }

// SearchMulti serves the scripted page.
func (f *FakeProvider) SearchMulti(ctx context.Context, _ string, page int) (provider.Page, error) {
	if err := f.wait(ctx); err != nil {
		return provider.Page{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, page)
	if err := f.PageErrors[page]; err != nil {
		return provider.Page{}, err
	}
	rows := append([]provider.Candidate{}, f.Pages[page]...)
	return provider.Page{Number: page, TotalPages: len(f.Pages), TotalResults: len(rows), Candidates: rows}, nil
}

// Credits serves the scripted credits. Unknown ids fail like a 404.
func (f *FakeProvider) Credits(ctx context.Context, id int64, _ media.Kind) (provider.Credits, error) {
	if err := f.wait(ctx); err != nil {
		return provider.Credits{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creditsCalls = append(f.creditsCalls, id)
	if err := f.CreditErrors[id]; err != nil {
		return provider.Credits{}, err
	}
	credits, ok := f.Credit[id]
	if !ok {
		return provider.Credits{}, services.Wrap(services.ErrProviderUnavailable, "fake", "credits", fmt.Sprintf("no credits for %d", id), nil)
	}
	return credits, nil
}

// SearchCalls returns the pages requested so far.
func (f *FakeProvider) SearchCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int{}, f.searchCalls...)
}

// CreditsCalls returns the ids looked up so far.
func (f *FakeProvider) CreditsCalls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64{}, f.creditsCalls...)
}

func (f *FakeProvider) wait(ctx context.Context) error {
	if f.Block == nil {
		return ctx.Err()
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return services.Wrap(services.ErrTimeout, "fake", "call", "context done", ctx.Err())
	}
}

// Movie builds a candidate that passes every aggregator filter.
func Movie(id int64, title string) provider.Candidate {
	return provider.Candidate{
		ProviderID:  id,
		MediaType:   "movie",
		Title:       title,
		PosterPath:  fmt.Sprintf("/poster-%d.jpg", id),
		Overview:    title + " overview",
		ReleaseDate: "2020-01-01",
		VoteAverage: 7.5,
		GenreIDs:    []int{18},
	}
}

// Series builds a series candidate that passes every aggregator filter.
func Series(id int64, title string) provider.Candidate {
	c := Movie(id, title)
	c.MediaType = "tv"
	c.GenreIDs = []int{10765}
	return c
}
