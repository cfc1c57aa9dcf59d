package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/metrics"
)

// DefaultDebounceWindow is how long a query waits for a newer one.
const DefaultDebounceWindow = 500 * time.Millisecond

// ErrSuperseded reports that a newer query for the same key replaced this one.
var ErrSuperseded = errors.New("search superseded by a newer query")

// SearchFunc runs one search.
type SearchFunc func(ctx context.Context, query string) ([]media.Result, error)

// Debouncer keeps only the latest query per key. A call waits for the window
// to elapse; if a newer call for the same key arrives first, the older call
// returns ErrSuperseded without running. A call that already ran has its
// results discarded when a newer call started meanwhile.
type Debouncer struct {
	window  time.Duration
	metrics *metrics.Metrics

	mu      sync.Mutex
	next    uint64
	tickets map[string]uint64
}

// NewDebouncer constructs a debouncer. A non-positive window uses the default.
func NewDebouncer(window time.Duration, m *metrics.Metrics) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{
		window:  window,
		metrics: m,
		tickets: make(map[string]uint64),
	}
}

// Window returns the configured debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Do runs fn for query once the window elapses, unless superseded.
func (d *Debouncer) Do(ctx context.Context, key, query string, fn SearchFunc) ([]media.Result, error) {
	ticket := d.issue(key)

	timer := time.NewTimer(d.window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		d.release(key, ticket)
		return nil, ctx.Err()
	case <-timer.C:
	}

	if !d.current(key, ticket) {
		d.metrics.CountSuperseded()
		return nil, ErrSuperseded
	}
	results, err := fn(ctx, query)
	if !d.release(key, ticket) {
		d.metrics.CountSuperseded()
		return nil, ErrSuperseded
	}
	return results, err
}

func (d *Debouncer) issue(key string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.tickets[key] = d.next
	return d.next
}

func (d *Debouncer) current(key string, ticket uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickets[key] == ticket
}

// release reports whether ticket is still the latest for key and, if so,
// forgets the key.
func (d *Debouncer) release(key string, ticket uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tickets[key] != ticket {
		return false
	}
	delete(d.tickets, key)
	return true
}
