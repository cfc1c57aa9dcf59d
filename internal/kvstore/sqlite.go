package kvstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/baliomega/nextflix/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped only for incompatible layout changes; additive
// changes go in migrations/.
const schemaVersion = 1

// historyLimit bounds the write audit rows kept per key.
const historyLimit = 50

// ErrSchemaMismatch indicates the database was created by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLite stores keys in a single table.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "kvstore", "open sqlite", "sqlite path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, "kvstore", "open sqlite", "create database directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "kvstore", "open sqlite", "open database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLite{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *SQLite) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, services.Wrap(services.ErrStorage, "kvstore", "get", key, err)
	}
	return value, true, nil
}

// Set upserts key and records the write in the history table.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "set", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, timestamp,
	); err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "set", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO kv_history (key, bytes, written_at) VALUES (?, ?, ?)",
		key, len(value), timestamp,
	); err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "set", "record history", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM kv_history WHERE key = ? AND id NOT IN (
            SELECT id FROM kv_history WHERE key = ? ORDER BY id DESC LIMIT ?
        )`,
		key, key, historyLimit,
	); err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "set", "prune history", err)
	}
	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrStorage, "kvstore", "set", "commit", err)
	}
	return nil
}

// Describe lists stored keys with their size and last write.
func (s *SQLite) Describe(ctx context.Context) ([]KeyInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT k.key, length(k.value), k.updated_at,
               (SELECT COUNT(1) FROM kv_history h WHERE h.key = k.key)
        FROM kv k ORDER BY k.key`)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "kvstore", "describe", "query keys", err)
	}
	defer rows.Close()

	var infos []KeyInfo
	for rows.Next() {
		var (
			info    KeyInfo
			updated string
		)
		if err := rows.Scan(&info.Key, &info.Bytes, &updated, &info.Writes); err != nil {
			return nil, services.Wrap(services.ErrStorage, "kvstore", "describe", "scan row", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, updated); parseErr == nil {
			info.UpdatedAt = ts
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "kvstore", "describe", "iterate rows", err)
	}
	return infos, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (export your collection and delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLite) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
