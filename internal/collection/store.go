package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baliomega/nextflix/internal/backfill"
	"github.com/baliomega/nextflix/internal/genres"
	"github.com/baliomega/nextflix/internal/identity"
	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/metrics"
	"github.com/baliomega/nextflix/internal/services"
)

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for dateAdded and last-added.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides local id minting.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "collection")
	}
}

// WithBackfiller replaces the heuristic backfiller.
func WithBackfiller(b backfill.Backfiller) Option {
	return func(s *Store) {
		if b != nil {
			s.backfiller = b
		}
	}
}

// WithMetrics records mutation counts and collection size.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithContentFilterDefault sets the filter state used when none is persisted.
func WithContentFilterDefault(enabled bool) Option {
	return func(s *Store) {
		s.filterEnabled = enabled
	}
}

// Store is the authoritative collection.
type Store struct {
	kv         kvstore.Store
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
	backfiller backfill.Backfiller
	metrics    *metrics.Metrics

	mu            sync.RWMutex
	entries       []Entry
	loaded        bool
	filterEnabled bool
	lastAdded     time.Time
}

// New constructs an unloaded store over kv.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:            kv,
		now:           time.Now,
		newID:         uuid.NewString,
		logger:        logging.NewComponentLogger(nil, "collection"),
		backfiller:    backfill.New(),
		filterEnabled: true,
		entries:       []Entry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Entries returns a copy of the collection, newest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Find returns the entry with localID.
func (s *Store) Find(localID string) (Entry, bool) {
	return s.FindExisting(identity.Candidate{LocalID: localID})
}

// FindExisting resolves candidate against the collection.
func (s *Store) FindExisting(candidate identity.Candidate) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := identity.FindExisting(s.entries, candidate)
	if idx < 0 {
		return Entry{}, false
	}
	return s.entries[idx].Clone(), true
}

// ContentFilterEnabled reports the persisted content-filter flag.
func (s *Store) ContentFilterEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterEnabled
}

// LastAdded returns when an entry was last added.
func (s *Store) LastAdded() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAdded, !s.lastAdded.IsZero()
}

// Add creates an entry from result, prepends it, and persists.
func (s *Store) Add(ctx context.Context, result media.Result, rating media.Rating) (Entry, error) {
	if !rating.Valid() {
		return Entry{}, services.Wrap(services.ErrValidation, "collection", "add", fmt.Sprintf("invalid rating %q", rating), nil)
	}
	title := strings.TrimSpace(result.Title)
	if title == "" {
		return Entry{}, services.Wrap(services.ErrValidation, "collection", "add", "title is required", nil)
	}
	if !result.Kind.Valid() {
		return Entry{}, services.Wrap(services.ErrValidation, "collection", "add", fmt.Sprintf("invalid media kind %q", result.Kind), nil)
	}

	names := result.Genres
	if len(names) == 0 {
		names = genres.Resolve(result.GenreIDs, result.Kind)
	}
	cast := append([]string{}, result.Cast...)

	now := s.now()
	entry := Entry{
		LocalID:        s.newID(),
		ProviderID:     result.ProviderID,
		Title:          title,
		Kind:           result.Kind,
		PosterPath:     result.PosterPath,
		BackdropPath:   result.BackdropPath,
		Overview:       result.Overview,
		ReleaseDate:    result.ReleaseDate,
		Rating:         rating,
		DateAdded:      now.Format(DateLayout),
		ProviderRating: result.ProviderRating,
		Cast:           cast,
		Director:       result.Director,
		Genres:         append([]string{}, names...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = services.WithEntryID(ctx, entry.LocalID)
	if err := s.commitLocked(ctx, append([]Entry{entry}, s.entries...)); err != nil {
		return Entry{}, err
	}
	s.lastAdded = now
	s.metrics.CountMutation("add")
	logging.WithContext(ctx, s.logger).Info("entry added",
		logging.ProviderID(entry.ProviderID),
		logging.String("title", entry.Title),
		logging.String("kind", string(entry.Kind)),
		logging.String("rating", string(entry.Rating)),
	)

	if err := s.setLocked(ctx, kvstore.KeyLastAdded, now.UTC().Format(time.RFC3339)); err != nil {
		return entry.Clone(), err
	}
	return entry.Clone(), nil
}

// UpdateRating sets or clears (RatingNone) the rating of localID. An unknown
// id is not an error; the collection is persisted either way.
func (s *Store) UpdateRating(ctx context.Context, localID string, rating media.Rating) (Entry, bool, error) {
	return s.rate(ctx, localID, func(Entry) media.Rating { return rating }, rating, "update_rating")
}

// ToggleRating applies rating, or clears it when the entry already has it.
func (s *Store) ToggleRating(ctx context.Context, localID string, rating media.Rating) (Entry, bool, error) {
	return s.rate(ctx, localID, func(current Entry) media.Rating {
		if current.Rating == rating {
			return media.RatingNone
		}
		return rating
	}, rating, "toggle_rating")
}

func (s *Store) rate(ctx context.Context, localID string, next func(Entry) media.Rating, requested media.Rating, op string) (Entry, bool, error) {
	if !requested.Valid() {
		return Entry{}, false, services.Wrap(services.ErrValidation, "collection", op, fmt.Sprintf("invalid rating %q", requested), nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = services.WithEntryID(ctx, localID)
	idx := identity.FindExisting(s.entries, identity.Candidate{LocalID: localID})
	if idx < 0 {
		logging.WithContext(ctx, s.logger).Debug("rating update for unknown entry ignored")
		return Entry{}, false, s.commitLocked(ctx, s.entries)
	}

	entries := slices.Clone(s.entries)
	entries[idx].Rating = next(entries[idx])
	if err := s.commitLocked(ctx, entries); err != nil {
		return Entry{}, true, err
	}
	updated := entries[idx].Clone()
	s.metrics.CountMutation(op)
	logging.WithContext(ctx, s.logger).Info("rating updated",
		logging.String("title", updated.Title),
		logging.String("rating", string(updated.Rating)),
	)
	return updated, true, nil
}

// Delete removes localID. Removing an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, localID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = services.WithEntryID(ctx, localID)
	idx := identity.FindExisting(s.entries, identity.Candidate{LocalID: localID})
	if idx < 0 {
		return false, s.commitLocked(ctx, s.entries)
	}
	title := s.entries[idx].Title
	if err := s.commitLocked(ctx, slices.Delete(slices.Clone(s.entries), idx, idx+1)); err != nil {
		return false, err
	}
	s.metrics.CountMutation("delete")
	logging.WithContext(ctx, s.logger).Info("entry deleted", logging.String("title", title))
	return true, nil
}

// SetContentFilterEnabled stores the content-filter flag.
func (s *Store) SetContentFilterEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterEnabled = enabled
	return s.setLocked(ctx, kvstore.KeyContentFilter, strconv.FormatBool(enabled))
}

// BackfillMissingFields fills genres, cast, and director on entries that
// lack them using the configured backfiller. Entries whose cast was missing
// get a non-nil (possibly empty) cast so later passes leave them alone. It
// returns how many entries changed and persists only when something did.
func (s *Store) BackfillMissingFields(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := slices.Clone(s.entries)
	changed := 0
	for i := range entries {
		if s.backfillLocked(&entries[i]) {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.commitLocked(ctx, entries); err != nil {
		return 0, err
	}
	s.metrics.CountMutation("backfill")
	s.logger.Info("backfilled legacy entries", logging.Int("changed", changed), logging.Int("entries", len(entries)))
	return changed, nil
}

func (s *Store) backfillLocked(e *Entry) bool {
	needGenres := len(e.Genres) == 0
	needCast := e.Cast == nil
	needDirector := strings.TrimSpace(e.Director) == ""
	if !needGenres && !needCast && !needDirector {
		return false
	}
	suggestion := s.backfiller.Suggest(backfill.Fields{Title: e.Title, Overview: e.Overview, Kind: e.Kind})
	changed := false
	if needGenres && len(suggestion.Genres) > 0 {
		e.Genres = append([]string{}, suggestion.Genres...)
		changed = true
	}
	if needCast {
		e.Cast = append([]string{}, suggestion.Cast...)
		changed = true
	}
	if needDirector && suggestion.Director != "" {
		e.Director = suggestion.Director
		changed = true
	}
	return changed
}

// commitLocked persists entries and only then makes them the live sequence,
// so a failed write leaves memory matching what is stored. Callers hold s.mu.
func (s *Store) commitLocked(ctx context.Context, entries []Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return services.Wrap(services.ErrStorage, "collection", "persist", "encode entries", err)
	}
	if err := s.setLocked(ctx, kvstore.KeyCollection, string(payload)); err != nil {
		return err
	}
	s.entries = entries
	s.metrics.SetCollectionSize(len(entries))
	return nil
}

func (s *Store) setLocked(ctx context.Context, key, value string) error {
	if !s.loaded {
		logging.WithContext(ctx, s.logger).Debug("write suppressed until load completes", logging.String("key", key))
		return nil
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		return services.Wrap(services.ErrStorage, "collection", "persist", key, err)
	}
	return nil
}
