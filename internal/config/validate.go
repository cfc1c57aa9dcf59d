package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxSearchPages = 10
	maxEnrichLimit = 40
)

var validSorts = map[string]struct{}{
	"dateWatched": {},
	"title":       {},
	"year":        {},
	"rating":      {},
}

// Validate ensures the configuration is usable. A missing TMDB key is not an
// error: the engine falls back to the offline catalogue.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateView(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Pages < 2 || c.Search.Pages > maxSearchPages {
		return fmt.Errorf("search.pages must be between 2 and %d", maxSearchPages)
	}
	if c.Search.EnrichLimit < 0 || c.Search.EnrichLimit > maxEnrichLimit {
		return fmt.Errorf("search.enrich_limit must be between 0 and %d", maxEnrichLimit)
	}
	if c.Search.TimeoutSeconds < c.Search.RequestTimeoutSeconds {
		return errors.New("search.timeout_seconds must not be shorter than search.request_timeout_seconds")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "sqlite":
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("storage.sqlite_path must be set for the sqlite backend")
		}
	case "file":
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return errors.New("storage.file_path must be set for the file backend")
		}
	case "redis":
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return errors.New("storage.redis_addr must be set for the redis backend")
		}
		if c.Storage.RedisDB < 0 {
			return errors.New("storage.redis_db must be non-negative")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (want sqlite, file, redis or memory)", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateView() error {
	if _, ok := validSorts[c.View.DefaultSort]; !ok {
		return fmt.Errorf("view.default_sort: unsupported value %q", c.View.DefaultSort)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind must be host:port, got %q", c.Server.Bind)
	}
	return nil
}
