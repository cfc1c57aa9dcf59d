package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/baliomega/nextflix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Storage defaults to the memory backend and the provider to the offline
// catalogue; options override either.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.TMDB.APIKey = ""
	cfgVal.Storage.Backend = "memory"
	cfgVal.Storage.DataDir = filepath.Join(base, "data")
	cfgVal.Storage.SQLitePath = filepath.Join(base, "data", "nextflix.db")
	cfgVal.Storage.FilePath = filepath.Join(base, "data", "nextflix.json")
	cfgVal.Export.Dir = filepath.Join(base, "exports")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Search.DebounceMillis = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBKey sets the TMDB API key and base URL on the test config.
func WithTMDBKey(key, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
		if baseURL != "" {
			b.cfg.TMDB.BaseURL = baseURL
		}
	}
}

// WithBackend selects a storage backend; the paths stay under the temp dir.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = backend
	}
}

// WithAPIToken requires bearer authentication on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}

// WithoutBreaker disables the provider circuit breaker.
func WithoutBreaker() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Breaker.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Storage.DataDir)
}
