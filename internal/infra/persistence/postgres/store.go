// Package postgres keeps the registry in memory and mirrors it into a
// Postgres table of JSONB buckets, one row per snapshot partition.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sync"

	"ohsurveil/internal/infra/persistence/memory"
	"ohsurveil/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

var _ domain.PersistentStore = (*Store)(nil)

const (
	driverName = "pgx"
	defaultDSN = "postgres://localhost/ohsurveil?sslmode=disable"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS registry_snapshot (
		bucket     TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	selectSQL = `SELECT bucket, payload FROM registry_snapshot`
	upsertSQL = `INSERT INTO registry_snapshot (bucket, payload, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
)

var (
	openDB = sql.Open
	openMu sync.Mutex
)

// Store is a memory.Store whose committed state is written back to
// Postgres. Only buckets whose encoding changed since the last write are
// upserted.
type Store struct {
	*memory.Store
	db *sql.DB

	mu      sync.Mutex
	written map[string][]byte
}

// NewStore connects to dsn, creates the snapshot table when missing and
// hydrates the registry from it.
func NewStore(ctx context.Context, dsn string, engine *domain.RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := openDB(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db}
	if err := s.bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	payloads, err := s.readBuckets(ctx)
	if err != nil {
		return err
	}
	snapshot, err := memory.DecodeBuckets(payloads)
	if err != nil {
		return err
	}
	s.ImportState(snapshot)
	s.written = payloads
	return nil
}

func (s *Store) readBuckets(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make(map[string][]byte)
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		out[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return out, nil
}

// RunInTransaction writes the changed buckets of the state fn produces
// before the state becomes visible in memory, so a failed write is not
// observable afterwards.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	return s.RunDurable(ctx, fn, s.flush)
}

func (s *Store) flush(ctx context.Context, snapshot memory.Snapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payloads, err := memory.EncodeBuckets(snapshot)
	if err != nil {
		return err
	}
	var dirty []string
	for _, bucket := range memory.Buckets {
		if !bytes.Equal(payloads[bucket], s.written[bucket]) {
			dirty = append(dirty, bucket)
		}
	}
	if len(dirty) == 0 {
		return nil
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
	for _, bucket := range dirty {
		if _, err = tx.ExecContext(ctx, upsertSQL, bucket, payloads[bucket]); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.written = payloads
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the pool for maintenance queries.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideOpen swaps the database opener and returns a restore function.
func OverrideOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := openDB
	openDB = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		openDB = prev
	}
}
