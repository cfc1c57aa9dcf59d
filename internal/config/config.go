package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	ImageBaseURL   string `toml:"image_base_url"`
	Language       string `toml:"language"`
	IncludeAdult   bool   `toml:"include_adult"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Search contains configuration for the search aggregator.
type Search struct {
	Pages                 int `toml:"pages"`
	EnrichLimit           int `toml:"enrich_limit"`
	Concurrency           int `toml:"concurrency"`
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
	TimeoutSeconds        int `toml:"timeout_seconds"`
	DebounceMillis        int `toml:"debounce_ms"`
}

// Storage selects and configures the persisted key-value backend.
type Storage struct {
	Backend       string `toml:"backend"`
	DataDir       string `toml:"data_dir"`
	SQLitePath    string `toml:"sqlite_path"`
	FilePath      string `toml:"file_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// Export contains configuration for export file delivery.
type Export struct {
	Dir string `toml:"dir"`
}

// Server contains configuration for the HTTP API.
type Server struct {
	Bind                string `toml:"bind"`
	APIToken            string `toml:"api_token"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// ContentFilter contains configuration for the explicit-content heuristic.
type ContentFilter struct {
	EnabledByDefault bool     `toml:"enabled_by_default"`
	ExtraTerms       []string `toml:"extra_terms"`
}

// View contains defaults for collection projections.
type View struct {
	DefaultSort string `toml:"default_sort"`
	Language    string `toml:"language"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Breaker contains configuration for the provider circuit breaker.
type Breaker struct {
	Enabled             bool   `toml:"enabled"`
	ConsecutiveFailures uint32 `toml:"consecutive_failures"`
	HalfOpenRequests    uint32 `toml:"half_open_requests"`
	IntervalSeconds     int    `toml:"interval_seconds"`
	OpenSeconds         int    `toml:"open_seconds"`
}

// Config encapsulates all configuration values for NextFlix.
//
// Configuration sections by subsystem:
//   - TMDB: provider credentials and endpoint
//   - Search: page count, enrichment bound, timeouts, debounce window
//   - Storage: key-value backend selection and paths
//   - Export: export destination directory
//   - Server: HTTP API bind address and timeouts
//   - ContentFilter: default state and extra deny-list terms
//   - View: default sort and collation language
//   - Logging: log format, level, and rotated file output
//   - Breaker: provider circuit breaker thresholds
type Config struct {
	TMDB          TMDB          `toml:"tmdb"`
	Search        Search        `toml:"search"`
	Storage       Storage       `toml:"storage"`
	Export        Export        `toml:"export"`
	Server        Server        `toml:"server"`
	ContentFilter ContentFilter `toml:"content_filter"`
	View          View          `toml:"view"`
	Logging       Logging       `toml:"logging"`
	Breaker       Breaker       `toml:"breaker"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return filepath.Join(xdg.ConfigHome, "nextflix", "config.toml"), nil
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Normalize applies defaults, environment fallbacks, and path expansion to a
// config built in code rather than loaded from disk.
func (c *Config) Normalize() error {
	return c.normalize()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("nextflix.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data directory used by file-backed storage.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Storage.DataDir, err)
	}
	return nil
}

// UsesOfflineProvider reports whether the TMDB credential is missing or one of
// the placeholder values shipped with sample configurations.
func (c *Config) UsesOfflineProvider() bool {
	switch strings.TrimSpace(c.TMDB.APIKey) {
	case "", "demo_key", "your_api_key_here":
		return true
	default:
		return false
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, "nextflix")
}

func defaultExportDir() string {
	if dir := strings.TrimSpace(xdg.UserDirs.Download); dir != "" {
		return dir
	}
	return "."
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
