// Package sqlite keeps the registry in memory and mirrors every committed
// transaction into a single SQLite file.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ohsurveil/internal/infra/persistence/memory"
	"ohsurveil/pkg/domain"

	_ "modernc.org/sqlite" // pure go driver, no cgo
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultPath is used when no database path is configured.
const DefaultPath = "ohsurveil.db"

var schema = []string{
	`PRAGMA busy_timeout = 5000`,
	`CREATE TABLE IF NOT EXISTS registry_snapshot (
		bucket     TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

const upsert = `INSERT INTO registry_snapshot (bucket, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

// Store is a memory.Store backed by a SQLite snapshot table. Buckets are
// rewritten only when their encoding changes.
type Store struct {
	*memory.Store
	db   *sql.DB
	path string

	mu      sync.Mutex
	written map[string][]byte
}

// NewStore opens or creates the database at path, creating parent
// directories as needed, and loads any snapshot it holds.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, path: path}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	rows, err := s.db.Query(`SELECT bucket, payload FROM registry_snapshot`)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()
	payloads := make(map[string][]byte)
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan snapshot row: %w", err)
		}
		payloads[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	snapshot, err := memory.DecodeBuckets(payloads)
	if err != nil {
		return err
	}
	s.ImportState(snapshot)
	s.written = payloads
	return nil
}

// RunInTransaction writes the changed buckets of the state fn produces and
// only then makes it visible in memory. A failed write leaves both sides
// unchanged.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	return s.RunDurable(ctx, fn, s.flush)
}

func (s *Store) flush(ctx context.Context, snapshot memory.Snapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payloads, err := memory.EncodeBuckets(snapshot)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range memory.Buckets {
		if bytes.Equal(payloads[bucket], s.written[bucket]) {
			continue
		}
		if _, err = tx.ExecContext(ctx, upsert, bucket, payloads[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.written = payloads
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the database handle for maintenance queries.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }
