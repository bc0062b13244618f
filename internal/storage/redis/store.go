package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/molkiya/shooting-range/internal/config"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

// Store implements storage.Store using Redis.
// Records are stored as JSON, ranked in a sorted set and listed per player.
type Store struct {
	client *goredis.Client
	ttl    time.Duration // Time-to-live for record payloads (0 = no expiration)
}

// NewStore connects to Redis and verifies the connection.
//
// Parameters:
//   - cfg: address, password and database number
//   - ttl: Time-to-live for record payloads (0 = no expiration)
func NewStore(cfg config.RedisConfig, ttl time.Duration) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStoreFromClient(client, ttl), nil
}

// NewStoreFromClient wraps an existing client.
func NewStoreFromClient(client *goredis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// RecordCompletedSession stores the record and indexes it.
func (s *Store) RecordCompletedSession(ctx context.Context, session models.CompletedSession) error {
	if err := storage.ValidateRecord(session); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// SETNX claims the id; indexes are only written by the claimant
	created, err := s.client.SetNX(ctx, recordKey(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	if !created {
		return storage.ErrRecordExists
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, leaderboardKey, goredis.Z{Score: float64(session.Score), Member: session.ID})
		pipe.LPush(ctx, playerKey(session.PlayerID), session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index record: %w", err)
	}

	return nil
}

// TopScores returns the best records from the leaderboard set.
func (s *Store) TopScores(ctx context.Context, limit int) ([]models.CompletedSession, error) {
	limit = storage.ClampLimit(limit)

	ids, err := s.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	records, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	storage.RankByScore(records)
	return records, nil
}

// PlayerHistory returns a player's records, newest first.
func (s *Store) PlayerHistory(ctx context.Context, playerID string) ([]models.CompletedSession, error) {
	ids, err := s.client.LRange(ctx, playerKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read player history: %w", err)
	}

	records, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	storage.NewestFirst(records)
	return records, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// load fetches record payloads, skipping ids whose payload has expired.
func (s *Store) load(ctx context.Context, ids []string) ([]models.CompletedSession, error) {
	records := make([]models.CompletedSession, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	for _, value := range values {
		record, ok, err := decodeRecord(value)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func decodeRecord(value interface{}) (models.CompletedSession, bool, error) {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return models.CompletedSession{}, false, nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return models.CompletedSession{}, false, fmt.Errorf("unexpected record payload %T", value)
	}

	var record models.CompletedSession
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.CompletedSession{}, false, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, true, nil
}

const leaderboardKey = "leaderboard"

// recordKey generates a Redis key for a record.
func recordKey(id string) string {
	return fmt.Sprintf("match:%s", id)
}

// playerKey generates the Redis key of a player's history list.
func playerKey(playerID string) string {
	return fmt.Sprintf("player:%s:matches", playerID)
}

var _ storage.Store = (*Store)(nil)
