package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/contentfilter"
	"github.com/baliomega/nextflix/internal/enrich"
	"github.com/baliomega/nextflix/internal/export"
	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/metrics"
	"github.com/baliomega/nextflix/internal/provider"
	"github.com/baliomega/nextflix/internal/provider/offline"
	"github.com/baliomega/nextflix/internal/provider/tmdb"
	"github.com/baliomega/nextflix/internal/search"
	"github.com/baliomega/nextflix/internal/services"
)

const lockFileName = "nextflix.lock"

// Option customizes Open.
type Option func(*options)

type options struct {
	provider provider.Provider
	store    kvstore.Store
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
	fs       afero.Fs
}

// WithProvider replaces the configured provider.
func WithProvider(p provider.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithStore replaces the configured key-value store. The engine closes it.
func WithStore(store kvstore.Store) Option {
	return func(o *options) { o.store = store }
}

// WithMetrics shares a metrics registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides local id minting.
func WithIDGenerator(next func() string) Option {
	return func(o *options) { o.newID = next }
}

// WithFs sets the filesystem used for export files.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// Engine is the facade over every collection and search operation.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	provider   provider.Provider
	breaker    *provider.Breaker
	aggregator *search.Aggregator
	classifier contentfilter.Classifier
	store      kvstore.Store
	collection *collection.Store
	sink       *export.Sink
	lock       *flock.Flock
	now        func() time.Time

	mu         sync.Mutex
	loadReport collection.LoadReport
	backfilled int
	closeOnce  sync.Once
}

// Open builds and loads an engine.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "open", "config is required", nil)
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}
	logger = logging.NewComponentLogger(logger, "engine")

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		metrics: o.metrics,
		now:     o.now,
		sink:    export.NewSink(o.fs, cfg.Export.Dir),
	}

	if o.store == nil && kvstore.Persistent(cfg.Storage.Backend) {
		if err := e.acquireLock(); err != nil {
			return nil, err
		}
	}

	store := o.store
	if store == nil {
		opened, err := kvstore.Open(ctx, cfg, logger)
		if err != nil {
			e.releaseLock()
			return nil, err
		}
		store = opened
	}
	e.store = store

	p, err := e.buildProvider(o.provider)
	if err != nil {
		_ = store.Close()
		e.releaseLock()
		return nil, err
	}
	e.provider = p

	collectionOpts := []collection.Option{
		collection.WithLogger(logger),
		collection.WithMetrics(o.metrics),
		collection.WithClock(o.now),
		collection.WithContentFilterDefault(cfg.ContentFilter.EnabledByDefault),
	}
	if o.newID != nil {
		collectionOpts = append(collectionOpts, collection.WithIDGenerator(o.newID))
	}
	e.collection = collection.New(store, collectionOpts...)

	e.classifier = contentfilter.NewKeywordClassifier(cfg.ContentFilter.ExtraTerms...)
	e.aggregator = search.New(
		p,
		enrich.New(p, logger, o.metrics),
		search.SettingsFromConfig(cfg.Search),
		search.WithClassifier(e.classifier),
		search.WithFilterSwitch(e.collection.ContentFilterEnabled),
		search.WithLogger(logger),
		search.WithMetrics(o.metrics),
	)

	if err := e.start(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

// start runs the load and backfill lifecycle once.
func (e *Engine) start(ctx context.Context) error {
	report, err := e.collection.Load(ctx)
	if err != nil {
		return err
	}
	e.loadReport = report

	changed, err := e.collection.BackfillMissingFields(ctx)
	if err != nil {
		return err
	}
	e.backfilled = changed

	e.logger.Info("engine ready",
		logging.String("provider", e.provider.Name()),
		logging.String("storage", e.cfg.Storage.Backend),
		logging.Int("entries", report.Entries),
		logging.Int("backfilled", changed),
		logging.Bool("content_filter", e.collection.ContentFilterEnabled()),
	)
	return nil
}

func (e *Engine) buildProvider(override provider.Provider) (provider.Provider, error) {
	p := override
	if p == nil {
		if e.cfg.UsesOfflineProvider() {
			e.logger.Info("no TMDB credential configured; using the offline catalogue",
				logging.String(logging.FieldEventType, "offline_provider"))
			p = offline.New()
		} else {
			client, err := tmdb.New(
				e.cfg.TMDB.APIKey,
				e.cfg.TMDB.BaseURL,
				e.cfg.TMDB.Language,
				tmdb.WithTimeout(time.Duration(e.cfg.TMDB.TimeoutSeconds)*time.Second),
				tmdb.WithIncludeAdult(e.cfg.TMDB.IncludeAdult),
				tmdb.WithMetrics(e.metrics),
				tmdb.WithLogger(e.logger),
			)
			if err != nil {
				return nil, services.Wrap(services.ErrConfiguration, "engine", "open", "build tmdb client", err)
			}
			p = client
		}
	}
	if !e.cfg.Breaker.Enabled {
		return p, nil
	}
	e.breaker = provider.NewBreaker(p, provider.BreakerSettings{
		ConsecutiveFailures: e.cfg.Breaker.ConsecutiveFailures,
		HalfOpenRequests:    e.cfg.Breaker.HalfOpenRequests,
		Interval:            time.Duration(e.cfg.Breaker.IntervalSeconds) * time.Second,
		OpenTimeout:         time.Duration(e.cfg.Breaker.OpenSeconds) * time.Second,
		OnStateChange:       e.metrics.SetBreakerState,
	}, e.logger)
	return e.breaker, nil
}

func (e *Engine) acquireLock() error {
	if err := e.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrStorage, "engine", "lock", "ensure data directory", err)
	}
	path := filepath.Join(e.cfg.Storage.DataDir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrStorage, "engine", "lock", "acquire "+path, err)
	}
	if !ok {
		return services.Wrap(services.ErrStorage, "engine", "lock",
			fmt.Sprintf("another nextflix process holds %s; stop it or use its HTTP API", path), nil)
	}
	e.lock = lock
	return nil
}

func (e *Engine) releaseLock() {
	if e.lock == nil {
		return
	}
	if err := e.lock.Unlock(); err != nil {
		logging.WarnWithContext(e.logger, "failed to release data directory lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the next start may report the directory as busy"),
		)
	}
	e.lock = nil
}

// Close releases the store and the data directory lock.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.store != nil {
			err = e.store.Close()
		}
		e.releaseLock()
	})
	return err
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Metrics returns the metrics registry.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// LoadReport returns what the startup load found.
func (e *Engine) LoadReport() collection.LoadReport {
	return e.loadReport
}

// IsUnavailable reports whether err means the provider could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, services.ErrProviderUnavailable)
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}
