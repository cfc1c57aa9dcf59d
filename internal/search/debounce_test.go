package search_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/search"
)

func TestDebouncerKeepsOnlyLatestQuery(t *testing.T) {
	d := search.NewDebouncer(30*time.Millisecond, nil)
	var ran atomic.Int32
	fn := func(_ context.Context, query string) ([]media.Result, error) {
		ran.Add(1)
		return []media.Result{{Title: query}}, nil
	}

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = d.Do(context.Background(), "session", "dun", fn)
	}()
	time.Sleep(5 * time.Millisecond)
	results, err := d.Do(context.Background(), "session", "dune", fn)
	wg.Wait()

	if !errors.Is(firstErr, search.ErrSuperseded) {
		t.Fatalf("expected first call superseded, got %v", firstErr)
	}
	if err != nil {
		t.Fatalf("latest call: %v", err)
	}
	if len(results) != 1 || results[0].Title != "dune" {
		t.Fatalf("unexpected results %v", results)
	}
	if ran.Load() != 1 {
		t.Fatalf("expected a single search, got %d", ran.Load())
	}
}

func TestDebouncerDiscardsStaleResult(t *testing.T) {
	d := search.NewDebouncer(5*time.Millisecond, nil)
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(_ context.Context, query string) ([]media.Result, error) {
		close(started)
		<-release
		return []media.Result{{Title: query}}, nil
	}
	fast := func(_ context.Context, query string) ([]media.Result, error) {
		return []media.Result{{Title: query}}, nil
	}

	errs := make(chan error, 1)
	go func() {
		_, err := d.Do(context.Background(), "k", "old", slow)
		errs <- err
	}()
	<-started

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := d.Do(context.Background(), "k", "new", fast); err != nil {
			t.Errorf("new query: %v", err)
		}
	}()
	// Let the newer call take its ticket before the stale search returns.
	time.Sleep(10 * time.Millisecond)
	close(release)

	if err := <-errs; !errors.Is(err, search.ErrSuperseded) {
		t.Fatalf("expected stale result discarded, got %v", err)
	}
	<-done
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	d := search.NewDebouncer(5*time.Millisecond, nil)
	fn := func(_ context.Context, query string) ([]media.Result, error) {
		return []media.Result{{Title: query}}, nil
	}
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, key := range []string{"a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = d.Do(context.Background(), key, key, fn)
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}

func TestDebouncerHonoursCancellation(t *testing.T) {
	d := search.NewDebouncer(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Do(ctx, "k", "q", func(context.Context, string) ([]media.Result, error) {
		t.Fatal("search should not run")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
