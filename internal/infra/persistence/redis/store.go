// Package redis snapshots the registry into a single Redis hash, one field
// per snapshot bucket, after every committed transaction.
package redis

import (
	"context"
	"fmt"
	"sync"

	"ohsurveil/internal/infra/persistence/memory"
	"ohsurveil/pkg/domain"

	"github.com/go-redis/redis/v8"
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultKey is the hash holding the snapshot buckets.
const DefaultKey = "ohsurveil:state"

// Options configures the Redis connection and snapshot key.
type Options struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// Store persists state to Redis while reusing the in-memory implementation for transactions.
type Store struct {
	*memory.Store
	client *redis.Client
	key    string
	mu     sync.Mutex
}

// NewStore connects to Redis and hydrates the in-memory store from the snapshot hash.
func NewStore(ctx context.Context, opts Options, engine *domain.RulesEngine) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	store, err := NewStoreWithClient(ctx, client, opts.Key, engine)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(ctx context.Context, client *redis.Client, key string, engine *domain.RulesEngine) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	fields, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	payloads := make(map[string][]byte, len(fields))
	for bucket, payload := range fields {
		payloads[bucket] = []byte(payload)
	}
	snapshot, err := memory.DecodeBuckets(payloads)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore(engine)
	mem.ImportState(snapshot)
	return &Store{Store: mem, client: client, key: key}, nil
}

// RunInTransaction writes the snapshot fn produces to the hash before it
// becomes visible in memory.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	return s.RunDurable(ctx, fn, s.persist)
}

func (s *Store) persist(ctx context.Context, snapshot memory.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payloads, err := memory.EncodeBuckets(snapshot)
	if err != nil {
		return err
	}
	values := make(map[string]any, len(payloads))
	for bucket, data := range payloads {
		values[bucket] = data
	}
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, values)
		return nil
	}); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Close releases the client connection.
func (s *Store) Close() error { return s.client.Close() }

// Key returns the hash key holding the snapshot.
func (s *Store) Key() string { return s.key }
