package kvstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/services"
)

func exerciseStore(t *testing.T, store kvstore.Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, kvstore.KeyCollection); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, kvstore.KeyCollection, `[{"id":"a"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, kvstore.KeyCollection, `[{"id":"b"}]`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	value, ok, err := store.Get(ctx, kvstore.KeyCollection)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"b"}]` {
		t.Fatalf("unexpected value %q", value)
	}
	if err := store.Set(ctx, kvstore.KeyContentFilter, "false"); err != nil {
		t.Fatalf("Set flag: %v", err)
	}
	if value, _, _ := store.Get(ctx, kvstore.KeyContentFilter); value != "false" {
		t.Fatalf("keys are not independent: %q", value)
	}
}

func TestMemoryStore(t *testing.T) {
	store := kvstore.NewMemory()
	exerciseStore(t, store)
	if store.Writes() != 3 {
		t.Fatalf("expected 3 writes, got %d", store.Writes())
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextflix.db")
	store, err := kvstore.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseStore(t, store)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := kvstore.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	value, ok, err := reopened.Get(context.Background(), kvstore.KeyCollection)
	if err != nil || !ok || value != `[{"id":"b"}]` {
		t.Fatalf("value lost across reopen: %q ok=%v err=%v", value, ok, err)
	}

	infos, err := reopened.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected two keys, got %+v", infos)
	}
	if infos[0].Key != kvstore.KeyContentFilter || infos[1].Key != kvstore.KeyCollection {
		t.Fatalf("unexpected key order %+v", infos)
	}
	if infos[1].Writes != 2 {
		t.Fatalf("expected two recorded writes, got %d", infos[1].Writes)
	}
	if infos[1].UpdatedAt.IsZero() {
		t.Fatal("expected an update timestamp")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nextflix.json")
	store, err := kvstore.OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	exerciseStore(t, store)
	_ = store.Close()

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be renamed away, stat err=%v", err)
	}

	reopened, err := kvstore.OpenFile(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if value, ok, _ := reopened.Get(context.Background(), kvstore.KeyContentFilter); !ok || value != "false" {
		t.Fatalf("value lost across reopen: %q ok=%v", value, ok)
	}
}

func TestFileStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextflix.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := kvstore.OpenFile(path, nil)
	if !errors.Is(err, services.ErrMalformedData) {
		t.Fatalf("expected malformed data error, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DataDir = dir
	cfg.Storage.SQLitePath = filepath.Join(dir, "kv.db")
	cfg.Storage.FilePath = filepath.Join(dir, "kv.json")

	tests := []struct {
		backend string
		check   func(kvstore.Store) bool
	}{
		{kvstore.BackendSQLite, func(s kvstore.Store) bool { _, ok := s.(*kvstore.SQLite); return ok }},
		{kvstore.BackendFile, func(s kvstore.Store) bool { _, ok := s.(*kvstore.File); return ok }},
		{kvstore.BackendMemory, func(s kvstore.Store) bool { _, ok := s.(*kvstore.Memory); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg.Storage.Backend = tt.backend
			store, err := kvstore.Open(context.Background(), &cfg, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer store.Close()
			if !tt.check(store) {
				t.Fatalf("unexpected backend type %T", store)
			}
		})
	}

	cfg.Storage.Backend = "etcd"
	if _, err := kvstore.Open(context.Background(), &cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	_, err := kvstore.OpenRedis(context.Background(), kvstore.RedisOptions{Addr: "127.0.0.1:1", Prefix: "test:"})
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPersistent(t *testing.T) {
	if !kvstore.Persistent("sqlite") || !kvstore.Persistent("file") {
		t.Fatal("disk backends should be persistent")
	}
	if kvstore.Persistent("redis") || kvstore.Persistent("memory") {
		t.Fatal("redis and memory are not local disk backends")
	}
}
