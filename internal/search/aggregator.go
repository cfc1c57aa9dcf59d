package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/contentfilter"
	"github.com/baliomega/nextflix/internal/enrich"
	"github.com/baliomega/nextflix/internal/genres"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/metrics"
	"github.com/baliomega/nextflix/internal/provider"
	"github.com/baliomega/nextflix/internal/services"
)

const (
	minPages           = 2
	defaultEnrichLimit = 10
	defaultConcurrency = 5
)

// Settings tunes one aggregator.
type Settings struct {
	Pages          int
	EnrichLimit    int
	Concurrency    int
	RequestTimeout time.Duration
	Timeout        time.Duration
}

// SettingsFromConfig converts the [search] config section.
func SettingsFromConfig(cfg config.Search) Settings {
	return Settings{
		Pages:          cfg.Pages,
		EnrichLimit:    cfg.EnrichLimit,
		Concurrency:    cfg.Concurrency,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (s Settings) normalized() Settings {
	if s.Pages < minPages {
		s.Pages = minPages
	}
	if s.EnrichLimit < 0 {
		s.EnrichLimit = 0
	}
	if s.Concurrency <= 0 {
		s.Concurrency = defaultConcurrency
	}
	return s
}

// DefaultSettings mirrors the config defaults.
func DefaultSettings() Settings {
	return Settings{
		Pages:          minPages,
		EnrichLimit:    defaultEnrichLimit,
		Concurrency:    defaultConcurrency,
		RequestTimeout: 8 * time.Second,
		Timeout:        20 * time.Second,
	}
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithClassifier overrides the content classifier.
func WithClassifier(c contentfilter.Classifier) Option {
	return func(a *Aggregator) {
		if c != nil {
			a.classifier = c
		}
	}
}

// WithFilterSwitch supplies the content-filter flag, read once per search.
func WithFilterSwitch(enabled func() bool) Option {
	return func(a *Aggregator) {
		if enabled != nil {
			a.filterEnabled = enabled
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logging.NewComponentLogger(logger, "search")
	}
}

// WithMetrics records search and provider metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// Aggregator runs multi-page searches against a provider.
type Aggregator struct {
	provider      provider.Provider
	enricher      enrich.Enricher
	classifier    contentfilter.Classifier
	filterEnabled func() bool
	settings      Settings
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// New constructs an aggregator. enricher may be nil to skip enrichment.
func New(p provider.Provider, enricher enrich.Enricher, settings Settings, opts ...Option) *Aggregator {
	a := &Aggregator{
		provider:      p,
		enricher:      enricher,
		classifier:    contentfilter.Default(),
		filterEnabled: func() bool { return true },
		settings:      settings.normalized(),
		logger:        logging.NewComponentLogger(nil, "search"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type pageResult struct {
	page provider.Page
	err  error
}

// Search returns the filtered, enriched results for query in provider order.
// An empty query returns no results without calling the provider. A failure
// of the first page is returned wrapped with services.ErrProviderUnavailable;
// later pages that fail contribute nothing.
func (a *Aggregator) Search(ctx context.Context, query string) ([]media.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []media.Result{}, nil
	}
	started := time.Now()
	ctx = services.WithQuery(ctx, query)
	logger := logging.WithContext(ctx, a.logger)

	if a.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.settings.Timeout)
		defer cancel()
	}

	pages := a.fetchPages(ctx, query)
	if err := pages[0].err; err != nil {
		a.metrics.ObserveSearch("error", time.Since(started), 0)
		return nil, services.Wrap(
			services.ErrProviderUnavailable,
			"search",
			"first page",
			"provider search failed",
			err,
		)
	}
	for i, pr := range pages[1:] {
		if pr.err != nil {
			logging.WarnWithContext(logger, "search page failed; continuing with fewer rows", "search_page_failed",
				logging.Int("page", i+2),
				logging.Error(pr.err),
				logging.String(logging.FieldErrorHint, services.Hint(pr.err)),
				logging.String(logging.FieldImpact, "results from this page are missing"),
			)
		}
	}

	enabled := a.filterEnabled()
	results := a.filter(merge(pages), enabled)
	enriched := a.enrich(ctx, results)

	for i := range results {
		if results[i].Cast == nil {
			results[i].Cast = []string{}
		}
		results[i].Genres = genres.Resolve(results[i].GenreIDs, results[i].Kind)
	}

	a.metrics.ObserveSearch("ok", time.Since(started), len(results))
	logger.Debug("search completed",
		logging.Int("results", len(results)),
		logging.Int("enriched", enriched),
		logging.Bool("content_filter", enabled),
		logging.Duration("latency", time.Since(started)),
	)
	return results, nil
}

func (a *Aggregator) fetchPages(ctx context.Context, query string) []pageResult {
	out := make([]pageResult, a.settings.Pages)
	p := pool.New().WithMaxGoroutines(a.settings.Pages)
	for i := range out {
		p.Go(func() {
			callCtx, cancel := a.callContext(ctx)
			defer cancel()
			page, err := a.provider.SearchMulti(callCtx, query, i+1)
			out[i] = pageResult{page: page, err: err}
		})
	}
	p.Wait()
	return out
}

func (a *Aggregator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.settings.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.settings.RequestTimeout)
}

type identity struct {
	id   int64
	kind string
}

// merge concatenates successful pages in page order, keeping the first
// occurrence of each provider id and media type.
func merge(pages []pageResult) []provider.Candidate {
	seen := make(map[identity]struct{})
	var merged []provider.Candidate
	for _, pr := range pages {
		if pr.err != nil {
			continue
		}
		for _, c := range pr.page.Candidates {
			key := identity{id: c.ProviderID, kind: c.MediaType}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

func (a *Aggregator) filter(candidates []provider.Candidate, filterEnabled bool) []media.Result {
	results := make([]media.Result, 0, len(candidates))
	for _, c := range candidates {
		kind, ok := media.KindFromProvider(c.MediaType)
		if !ok {
			continue
		}
		if c.VoteAverage <= 0 {
			continue
		}
		result := media.Result{
			ProviderID:     c.ProviderID,
			Title:          strings.TrimSpace(c.Title),
			Kind:           kind,
			PosterPath:     c.PosterPath,
			BackdropPath:   c.BackdropPath,
			Overview:       c.Overview,
			ReleaseDate:    c.ReleaseDate,
			ProviderRating: c.VoteAverage,
			GenreIDs:       c.GenreIDs,
		}
		if !result.HasImage() {
			continue
		}
		candidate := contentfilter.Candidate{Title: result.Title, Overview: result.Overview}
		if !contentfilter.IsAppropriate(a.classifier, candidate, filterEnabled) {
			continue
		}
		results = append(results, result)
	}
	return results
}

// enrich fills credits for the first EnrichLimit results and waits for every
// lookup to settle. It returns the number of results that were enriched.
func (a *Aggregator) enrich(ctx context.Context, results []media.Result) int {
	if a.enricher == nil || a.settings.EnrichLimit == 0 {
		return 0
	}
	limit := min(a.settings.EnrichLimit, len(results))
	var (
		mu    sync.Mutex
		count int
	)
	p := pool.New().WithMaxGoroutines(a.settings.Concurrency)
	for i := range limit {
		p.Go(func() {
			callCtx, cancel := a.callContext(ctx)
			defer cancel()
			credits, ok := a.enricher.Enrich(callCtx, results[i].ProviderID, results[i].Kind)
			if !ok {
				return
			}
			results[i].Cast = credits.Cast
			results[i].Director = credits.Director
			results[i].Enriched = true
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	p.Wait()
	return count
}
