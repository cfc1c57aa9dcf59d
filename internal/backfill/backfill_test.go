package backfill_test

import (
	"reflect"
	"testing"

	"github.com/baliomega/nextflix/internal/backfill"
	"github.com/baliomega/nextflix/internal/media"
)

func TestSuggestKnownTitle(t *testing.T) {
	got := backfill.New().Suggest(backfill.Fields{Title: "The Dark Knight!", Kind: media.KindMovie})
	if got.Director != "Christopher Nolan" {
		t.Fatalf("director = %q", got.Director)
	}
	if len(got.Cast) == 0 || got.Cast[0] != "Christian Bale" {
		t.Fatalf("cast = %v", got.Cast)
	}
	if got.Genres[0] != "Drama" {
		t.Fatalf("expected known genres first, got %v", got.Genres)
	}
}

func TestSuggestKnownTitleRequiresKind(t *testing.T) {
	got := backfill.New().Suggest(backfill.Fields{Title: "Severance", Kind: media.KindMovie})
	if got.Director != "" || len(got.Cast) != 0 {
		t.Fatalf("series table entry leaked into a movie: %+v", got)
	}
}

func TestSuggestGenreKeywordsPerKind(t *testing.T) {
	h := backfill.New()
	movie := h.Suggest(backfill.Fields{
		Title:    "Unknown Voyage",
		Overview: "A crew travels through a wormhole while a detective hunts a murder suspect.",
		Kind:     media.KindMovie,
	})
	if want := []string{"Science Fiction", "Crime"}; !reflect.DeepEqual(movie.Genres, want) {
		t.Fatalf("movie genres = %v, want %v", movie.Genres, want)
	}

	series := h.Suggest(backfill.Fields{
		Title:    "Unknown Voyage",
		Overview: "A crew travels through a wormhole.",
		Kind:     media.KindSeries,
	})
	if want := []string{"Sci-Fi & Fantasy"}; !reflect.DeepEqual(series.Genres, want) {
		t.Fatalf("series genres = %v, want %v", series.Genres, want)
	}
}

func TestSuggestMatchesWholeWordsOnly(t *testing.T) {
	got := backfill.New().Suggest(backfill.Fields{Title: "Warden", Overview: "Glovers and spaceless rooms.", Kind: media.KindMovie})
	if len(got.Genres) != 0 {
		t.Fatalf("expected no genres from partial words, got %v", got.Genres)
	}
}

func TestSuggestIsDeterministic(t *testing.T) {
	h := backfill.New()
	fields := backfill.Fields{Title: "Amélie", Overview: "A shy waitress falls for a stranger in a romantic Paris.", Kind: media.KindMovie}
	first := h.Suggest(fields)
	second := h.Suggest(fields)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("suggestions differ: %+v vs %+v", first, second)
	}
}
