package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/provider/tmdb"
	"github.com/baliomega/nextflix/internal/services"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchMultiSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" {
			t.Errorf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if q.Get("page") != "2" {
			t.Errorf("expected page=2, got %q", q.Get("page"))
		}
		if q.Get("include_adult") != "false" {
			t.Errorf("expected include_adult=false, got %q", q.Get("include_adult"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":2,"total_pages":3,"results":[
			{"id":1,"title":"Heat","media_type":"movie","release_date":"1995-12-15","vote_average":8.2,"poster_path":"/heat.jpg","genre_ids":[28,80]},
			{"id":2,"name":"Severance","media_type":"tv","first_air_date":"2022-02-18","vote_average":8.4,"backdrop_path":"/sev.jpg"}
		]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	page, err := client.SearchMulti(context.Background(), "heat", 2)
	if err != nil {
		t.Fatalf("SearchMulti returned error: %v", err)
	}
	if page.Number != 2 || page.TotalPages != 3 || len(page.Candidates) != 2 {
		t.Fatalf("unexpected page: %#v", page)
	}
	movie := page.Candidates[0]
	if movie.Title != "Heat" || movie.ReleaseDate != "1995-12-15" || len(movie.GenreIDs) != 2 {
		t.Fatalf("unexpected movie candidate: %#v", movie)
	}
	series := page.Candidates[1]
	if series.Title != "Severance" || series.ReleaseDate != "2022-02-18" || series.MediaType != "tv" {
		t.Fatalf("expected name and first_air_date for tv rows, got %#v", series)
	}
	if series.GenreIDs == nil {
		t.Fatal("expected empty genre slice, got nil")
	}
}

func TestSearchMultiHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.SearchMulti(context.Background(), "fail", 1)
	if !errors.Is(err, services.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSearchMultiEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMulti(context.Background(), "  ", 1); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
}

func TestSearchMultiTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.SearchMulti(ctx, "slow", 1)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCreditsMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205/credits" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"cast":[{"name":"Leonardo DiCaprio"},{"name":"Elliot Page"}],
			"crew":[{"name":"Hans Zimmer","job":"Original Music Composer"},{"name":"Christopher Nolan","job":"Director"}]}`))
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "")
	credits, err := client.Credits(context.Background(), 27205, media.KindMovie)
	if err != nil {
		t.Fatalf("Credits returned error: %v", err)
	}
	if len(credits.Cast) != 2 || credits.Cast[0] != "Leonardo DiCaprio" {
		t.Fatalf("unexpected cast %v", credits.Cast)
	}
	if len(credits.Crew) != 2 || credits.Crew[1].Job != "Director" {
		t.Fatalf("unexpected crew %v", credits.Crew)
	}
}

func TestCreditsSeriesIncludesCreators(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/95396" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Errorf("expected credits appended, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":95396,"name":"Severance","created_by":[{"name":"Dan Erickson"}],
			"credits":{"cast":[{"name":"Adam Scott"}],"crew":[{"name":"Ben Stiller","job":"Executive Producer"}]}}`))
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "")
	credits, err := client.Credits(context.Background(), 95396, media.KindSeries)
	if err != nil {
		t.Fatalf("Credits returned error: %v", err)
	}
	if len(credits.Crew) != 2 {
		t.Fatalf("expected creator plus crew, got %v", credits.Crew)
	}
	if credits.Crew[0].Name != "Dan Erickson" || credits.Crew[0].Job != "Creator" {
		t.Fatalf("expected creator first, got %v", credits.Crew[0])
	}
}
