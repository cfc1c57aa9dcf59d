package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/baliomega/nextflix/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "absent.toml")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Search.Pages != 2 {
		t.Fatalf("expected two pages by default, got %d", cfg.Search.Pages)
	}
	if cfg.Search.EnrichLimit != 10 {
		t.Fatalf("expected enrich limit 10, got %d", cfg.Search.EnrichLimit)
	}
	if cfg.Search.DebounceMillis != 500 {
		t.Fatalf("expected 500ms debounce, got %d", cfg.Search.DebounceMillis)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Fatalf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if filepath.Dir(cfg.Storage.SQLitePath) != cfg.Storage.DataDir {
		t.Fatalf("expected sqlite path under data dir, got %q", cfg.Storage.SQLitePath)
	}
	if !filepath.IsAbs(cfg.Storage.DataDir) {
		t.Fatalf("expected absolute data dir, got %q", cfg.Storage.DataDir)
	}
	if !cfg.ContentFilter.EnabledByDefault {
		t.Fatal("expected content filter enabled by default")
	}
	if !cfg.UsesOfflineProvider() {
		t.Fatal("expected offline provider without an api key")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nextflix.toml")

	type payload struct {
		TMDB struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"tmdb"`
		Search struct {
			Pages       int `toml:"pages"`
			EnrichLimit int `toml:"enrich_limit"`
		} `toml:"search"`
		Storage struct {
			Backend string `toml:"backend"`
			DataDir string `toml:"data_dir"`
		} `toml:"storage"`
	}
	custom := payload{}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb/"
	custom.Search.Pages = 3
	custom.Search.EnrichLimit = 4
	custom.Storage.Backend = "FILE"
	custom.Storage.DataDir = filepath.Join(tempDir, "data")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Search.Pages != 3 || cfg.Search.EnrichLimit != 4 {
		t.Fatalf("unexpected search config: %+v", cfg.Search)
	}
	if cfg.Storage.Backend != "file" {
		t.Fatalf("expected backend lowercased, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.FilePath != filepath.Join(tempDir, "data", "nextflix.json") {
		t.Fatalf("unexpected file path: %q", cfg.Storage.FilePath)
	}
	if cfg.UsesOfflineProvider() {
		t.Fatal("expected live provider with a real key")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Storage.DataDir); err != nil || !info.IsDir() {
		t.Fatalf("expected data dir to exist: %v", err)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("NEXTFLIX_REDIS_PASSWORD", "env-redis")

	cfg := config.Default()
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "env-tmdb" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Storage.RedisPassword != "env-redis" {
		t.Fatalf("expected redis password from env, got %q", cfg.Storage.RedisPassword)
	}

	cfg = config.Default()
	cfg.TMDB.APIKey = "file-key"
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "file-key" {
		t.Fatalf("expected file key to win over env, got %q", cfg.TMDB.APIKey)
	}
}

func TestUsesOfflineProviderPlaceholders(t *testing.T) {
	for _, key := range []string{"", "demo_key", "your_api_key_here", "  demo_key "} {
		cfg := config.Default()
		cfg.TMDB.APIKey = key
		if !cfg.UsesOfflineProvider() {
			t.Fatalf("expected %q to select the offline provider", key)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"single page", func(c *config.Config) { c.Search.Pages = 1 }, "search.pages"},
		{"negative enrich", func(c *config.Config) { c.Search.EnrichLimit = -1 }, "search.enrich_limit"},
		{"timeouts inverted", func(c *config.Config) { c.Search.TimeoutSeconds = 1; c.Search.RequestTimeoutSeconds = 5 }, "search.timeout_seconds"},
		{"backend", func(c *config.Config) { c.Storage.Backend = "mongo" }, "storage.backend"},
		{"sort", func(c *config.Config) { c.View.DefaultSort = "popularity" }, "view.default_sort"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if err := cfg.Normalize(); err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Server.Bind != "127.0.0.1:7488" {
		t.Fatalf("unexpected bind %q", cfg.Server.Bind)
	}
}
