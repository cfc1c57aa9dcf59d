package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/export"
	"github.com/baliomega/nextflix/internal/identity"
	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
	"github.com/baliomega/nextflix/internal/view"
)

// Search runs the aggregator. When the provider cannot serve the first page
// the result list is empty and the returned error wraps
// services.ErrProviderUnavailable so callers can show a notice.
func (e *Engine) Search(ctx context.Context, query string) ([]media.Result, error) {
	ctx = services.WithQuery(ctx, strings.TrimSpace(query))
	results, err := e.aggregator.Search(ctx, query)
	if err != nil {
		logger := logging.WithContext(ctx, e.logger)
		if IsUnavailable(err) {
			logging.WarnWithContext(logger, "search provider unavailable", "search_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
				logging.String(logging.FieldImpact, "search returned no results"),
			)
		} else {
			logger.Debug("search ended early", logging.Error(err))
		}
		return []media.Result{}, err
	}
	return results, nil
}

// Add stores result as a new entry.
func (e *Engine) Add(ctx context.Context, result media.Result, rating media.Rating) (collection.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Add(ctx, result, rating)
}

// AddOrRate rates the entry that already represents result, or adds a new
// entry when none does. created reports which path was taken. Adding a title
// that is already stored without a rating leaves it untouched; clearing a
// rating is UpdateRating's job.
func (e *Engine) AddOrRate(ctx context.Context, result media.Result, rating media.Rating) (collection.Entry, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.collection.FindExisting(candidateFor(result)); ok {
		if rating == media.RatingNone {
			return existing, false, nil
		}
		updated, _, err := e.collection.UpdateRating(ctx, existing.LocalID, rating)
		return updated, false, err
	}
	entry, err := e.collection.Add(ctx, result, rating)
	if err != nil {
		return collection.Entry{}, false, err
	}
	return entry, true, nil
}

// FindExisting returns the stored entry representing result, if any.
func (e *Engine) FindExisting(result media.Result) (collection.Entry, bool) {
	return e.collection.FindExisting(candidateFor(result))
}

func candidateFor(result media.Result) identity.Candidate {
	return identity.Candidate{ProviderID: result.ProviderID, Title: result.Title, Kind: result.Kind}
}

// UpdateRating sets the rating of localID. Unknown ids report found=false.
func (e *Engine) UpdateRating(ctx context.Context, localID string, rating media.Rating) (collection.Entry, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.UpdateRating(ctx, localID, rating)
}

// ToggleRating applies rating, clearing it when the entry already has it.
func (e *Engine) ToggleRating(ctx context.Context, localID string, rating media.Rating) (collection.Entry, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.ToggleRating(ctx, localID, rating)
}

// Delete removes localID and reports whether it existed.
func (e *Engine) Delete(ctx context.Context, localID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.Delete(ctx, localID)
}

// Entry returns the entry with localID.
func (e *Engine) Entry(localID string) (collection.Entry, bool) {
	return e.collection.Find(localID)
}

// Entries returns the full collection, newest first.
func (e *Engine) Entries() []collection.Entry {
	return e.collection.Entries()
}

// ParseView validates filter strings. An empty sort falls back to the
// configured default.
func (e *Engine) ParseView(typeFilter, ratingFilter, search, sortKey string) (view.Options, error) {
	if strings.TrimSpace(sortKey) == "" {
		sortKey = e.cfg.View.DefaultSort
	}
	opts, err := view.ParseOptions(typeFilter, ratingFilter, search, sortKey)
	if err != nil {
		return view.Options{}, err
	}
	return opts, nil
}

// Project returns the filtered and sorted view of the collection.
func (e *Engine) Project(opts view.Options) []collection.Entry {
	if opts.Language == "" {
		opts.Language = e.cfg.View.Language
	}
	if opts.Classifier == nil {
		opts.Classifier = e.classifier
	}
	return view.Project(e.collection.Entries(), opts)
}

// ExportCSV renders the full collection as CSV.
func (e *Engine) ExportCSV() ([]byte, error) {
	return export.CSV(e.collection.Entries())
}

// ExportJSON renders the full collection as a structured export.
func (e *Engine) ExportJSON() ([]byte, error) {
	return export.JSON(e.collection.Entries(), e.now())
}

// ExportTXT renders the full collection as a plain text summary.
func (e *Engine) ExportTXT() []byte {
	return export.Text(e.collection.Entries(), e.now())
}

// Export renders the collection in format.
func (e *Engine) Export(format export.Format) ([]byte, error) {
	return export.Render(format, e.collection.Entries(), e.now())
}

// WriteExports writes one file per format into the export directory and
// returns their paths. No formats means all of them.
func (e *Engine) WriteExports(formats ...export.Format) ([]string, error) {
	if len(formats) == 0 {
		formats = export.Formats
	}
	now := e.now()
	entries := e.collection.Entries()
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		payload, err := export.Render(format, entries, now)
		if err != nil {
			return paths, err
		}
		path, err := e.sink.Write(format, now, payload)
		if err != nil {
			return paths, err
		}
		e.logger.Info("export written",
			logging.String("format", string(format)),
			logging.String("path", path),
			logging.Int("entries", len(entries)),
		)
		paths = append(paths, path)
	}
	return paths, nil
}

// Import merges a structured export into the collection.
func (e *Engine) Import(ctx context.Context, data []byte) (collection.ImportReport, error) {
	doc, err := export.ParseJSON(data)
	if err != nil {
		return collection.ImportReport{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	report, err := e.collection.Import(ctx, doc.Collection)
	if err != nil {
		return report, err
	}
	e.logger.Info("import merged",
		logging.Int("added", report.Added),
		logging.Int("updated", report.Updated),
		logging.Int("unchanged", report.Unchanged),
		logging.Int("skipped", report.Skipped),
	)
	return report, nil
}

// ImportFile reads path through the export filesystem and imports it.
func (e *Engine) ImportFile(ctx context.Context, path string) (collection.ImportReport, error) {
	data, err := e.sink.ReadFile(path)
	if err != nil {
		return collection.ImportReport{}, err
	}
	return e.Import(ctx, data)
}

// SetContentFilter persists the content filter switch.
func (e *Engine) SetContentFilter(ctx context.Context, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collection.SetContentFilterEnabled(ctx, enabled)
}

// ContentFilterEnabled reports the current content filter switch.
func (e *Engine) ContentFilterEnabled() bool {
	return e.collection.ContentFilterEnabled()
}

// Status summarizes the running engine.
type Status struct {
	Provider      string                `json:"provider"`
	Offline       bool                  `json:"offline"`
	Breaker       string                `json:"breaker,omitempty"`
	Storage       string                `json:"storage"`
	Entries       int                   `json:"entries"`
	Stats         view.Stats            `json:"stats"`
	ContentFilter bool                  `json:"contentFilter"`
	LastAdded     time.Time             `json:"lastAdded,omitzero"`
	ExportDir     string                `json:"exportDir"`
	Keys          []kvstore.KeyInfo     `json:"keys,omitempty"`
	Load          collection.LoadReport `json:"load"`
	Backfilled    int                   `json:"backfilled"`
}

// Status reports provider, storage, and collection state.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	st := Status{
		Provider:      e.provider.Name(),
		Offline:       e.cfg.UsesOfflineProvider(),
		Storage:       e.cfg.Storage.Backend,
		Entries:       e.collection.Len(),
		Stats:         view.CountStats(e.collection.Entries()),
		ContentFilter: e.collection.ContentFilterEnabled(),
		ExportDir:     e.sink.Dir(),
		Load:          e.loadReport,
		Backfilled:    e.backfilled,
	}
	if e.breaker != nil {
		st.Breaker = e.breaker.State()
	}
	if last, ok := e.collection.LastAdded(); ok {
		st.LastAdded = last
	}
	if inspector, ok := e.store.(kvstore.Inspector); ok {
		keys, err := inspector.Describe(ctx)
		if err != nil {
			return st, fmt.Errorf("describe store: %w", err)
		}
		st.Keys = keys
	}
	return st, nil
}

// ResolveRating parses a rating flag, mapping failures onto ErrValidation.
func ResolveRating(value string) (media.Rating, error) {
	rating, err := media.ParseRating(value)
	if err != nil {
		return media.RatingNone, services.Wrap(services.ErrValidation, "engine", "parse rating", err.Error(), nil)
	}
	return rating, nil
}
