package testsupport

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/media"
)

// FixedClock returns a clock pinned to 2024-03-15 10:00 UTC.
func FixedClock() func() time.Time {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// SequentialIDs returns an id generator yielding id-1, id-2, ...
func SequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

// NewCollection returns a loaded collection over a fresh memory store.
func NewCollection(t testing.TB, opts ...collection.Option) (*collection.Store, *kvstore.Memory) {
	t.Helper()

	kv := kvstore.NewMemory()
	all := append([]collection.Option{
		collection.WithClock(FixedClock()),
		collection.WithIDGenerator(SequentialIDs()),
	}, opts...)
	store := collection.New(kv, all...)
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("collection.Load: %v", err)
	}
	return store, kv
}

// MustAdd adds result to store or fails the test.
func MustAdd(t testing.TB, store *collection.Store, result media.Result, rating media.Rating) collection.Entry {
	t.Helper()

	entry, err := store.Add(context.Background(), result, rating)
	if err != nil {
		t.Fatalf("store.Add(%q): %v", result.Title, err)
	}
	return entry
}

// Result builds a search result with artwork and a positive rating.
func Result(id int64, title string, kind media.Kind) media.Result {
	return media.Result{
		ProviderID:     id,
		Title:          title,
		Kind:           kind,
		PosterPath:     "/poster.jpg",
		Overview:       title + " overview",
		ReleaseDate:    "2010-07-16",
		ProviderRating: 7.5,
		Genres:         []string{"Drama"},
		Cast:           []string{"Lead Actor"},
		Director:       "Some Director",
	}
}
