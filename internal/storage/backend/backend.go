// Package backend opens the record store named in the configuration.
package backend

import (
	"fmt"

	"github.com/molkiya/shooting-range/internal/config"
	"github.com/molkiya/shooting-range/internal/storage"
	"github.com/molkiya/shooting-range/internal/storage/cassandra"
	"github.com/molkiya/shooting-range/internal/storage/redis"
	"github.com/molkiya/shooting-range/internal/storage/sqlite"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// Open connects to cfg.StorageBackend. The caller owns the returned store.
func Open(cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("Using sqlite storage", logger.F("path", cfg.SQLitePath))
		return store, nil

	case config.BackendRedis:
		// records are permanent; session expiry is handled in memory
		store, err := redis.NewStore(cfg.Redis, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Using redis storage", logger.F("addr", cfg.Redis.Addr))
		return store, nil

	case config.BackendCassandra:
		client, err := cassandra.NewClient(cfg.Cassandra, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
		}
		log.Info("Using cassandra storage", logger.F("keyspace", client.Keyspace()))
		return cassandra.NewRepository(client, log, cfg.Cassandra.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
