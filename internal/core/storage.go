package core

import (
	"context"
	"fmt"
	"io"

	"ohsurveil/internal/infra/persistence/memory"
	"ohsurveil/internal/infra/persistence/postgres"
	"ohsurveil/internal/infra/persistence/redis"
	"ohsurveil/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // process lifetime only
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageRedis    StorageDriver = "redis"    // Redis hash
)

// RedisConfig configures the redis snapshot driver.
type RedisConfig = redis.Options

// StorageConfig selects and configures the registry backend.
type StorageConfig struct {
	Driver      StorageDriver `mapstructure:"driver"`
	SQLitePath  string        `mapstructure:"sqlite_path"`
	PostgresDSN string        `mapstructure:"postgres_dsn"`
	Redis       RedisConfig   `mapstructure:"redis"`
}

// OpenPersistentStore builds the configured backend. An empty driver selects
// the memory store. Snapshot drivers hydrate from their last snapshot.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig, engine *RulesEngine) (PersistentStore, error) {
	switch cfg.Driver {
	case "", StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageRedis:
		store, err := redis.NewStore(ctx, cfg.Redis, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// CloseStore releases backend resources for drivers that hold any.
func CloseStore(store PersistentStore) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
