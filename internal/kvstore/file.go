package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/services"
)

// File keeps every key in one JSON object on disk. Writes go to a temp file
// that is renamed over the original while holding an advisory lock, so a
// second process never observes a half-written file.
type File struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]string
}

// OpenFile loads the JSON object at path. A missing file starts empty.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "kvstore", "open file", "file path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, "kvstore", "open file", "create directory", err)
	}
	f := &File{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "kvstore"),
		values: make(map[string]string),
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Get returns the value stored under key.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.values[key]
	return value, ok, nil
}

// Set stores value and rewrites the file.
func (f *File) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous, existed := f.values[key]
	f.values[key] = value
	if err := f.save(ctx); err != nil {
		if existed {
			f.values[key] = previous
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// Describe lists keys in name order, stamped with the file's modification time.
func (f *File) Describe(context.Context) ([]KeyInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var modified time.Time
	if info, err := os.Stat(f.path); err == nil {
		modified = info.ModTime()
	}
	infos := make([]KeyInfo, 0, len(f.values))
	for k, v := range f.values {
		infos = append(infos, KeyInfo{Key: k, Bytes: len(v), UpdatedAt: modified})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Close releases the lock file handle.
func (f *File) Close() error {
	return f.lock.Close()
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return services.Wrap(services.ErrStorage, "kvstore", "load file", "read file", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return services.Wrap(services.ErrMalformedData, "kvstore", "load file", f.path, err)
	}
	f.logger.Debug("loaded key-value file",
		logging.Int("keys", len(f.values)),
		logging.String("path", f.path))
	return nil
}

func (f *File) save(ctx context.Context) error {
	locked, err := f.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "save file", "acquire lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrStorage, "kvstore", "save file", "lock held by another process", nil)
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "save file", "write temp file", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrStorage, "kvstore", "save file", "rename temp file", err)
	}
	return nil
}
