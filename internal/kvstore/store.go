package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/services"
)

// Keys used by the collection store.
const (
	KeyCollection    = "nextflix-data"
	KeyContentFilter = "nextflix-content-filter"
	KeyLastAdded     = "nextflix-last-added"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Store is the persistence port. Get reports ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// KeyInfo summarizes one stored key.
type KeyInfo struct {
	Key       string
	Bytes     int
	UpdatedAt time.Time
	// Writes counts the retained write history, zero when the backend keeps none.
	Writes int
}

// Inspector is implemented by backends that can list their keys.
type Inspector interface {
	Describe(ctx context.Context) ([]KeyInfo, error)
}

// Open constructs the backend named by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "kvstore", "open", "config is required", nil)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case BackendSQLite, "":
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, services.Wrap(services.ErrStorage, "kvstore", "open", "ensure data directory", err)
		}
		return OpenSQLite(ctx, cfg.Storage.SQLitePath)
	case BackendFile:
		return OpenFile(cfg.Storage.FilePath, logger)
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
			Prefix:   cfg.Storage.RedisPrefix,
		})
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, services.Wrap(
			services.ErrConfiguration,
			"kvstore",
			"open",
			fmt.Sprintf("unknown storage backend %q", cfg.Storage.Backend),
			nil,
		)
	}
}

// Persistent reports whether backend keeps data on the local disk.
func Persistent(backend string) bool {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite, BackendFile, "":
		return true
	default:
		return false
	}
}
