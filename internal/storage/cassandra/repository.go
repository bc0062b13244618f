package cassandra

import (
	"context"
	"fmt"
	"time"

	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/storage"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// Repository implements storage.Store using Cassandra
type Repository struct {
	client  *Client
	logger  *logger.Logger
	timeout time.Duration
}

// NewRepository creates a new Cassandra-based record repository
func NewRepository(client *Client, log *logger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		client:  client,
		logger:  log,
		timeout: timeout,
	}
}

// queryContext applies the configured timeout unless ctx already has a deadline.
func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	queryCtx, cancel := ctx, context.CancelFunc(func() {})
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		queryCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}

	select {
	case <-queryCtx.Done():
		cancel()
		return nil, nil, fmt.Errorf("context cancelled: %w", queryCtx.Err())
	default:
	}
	return queryCtx, cancel, nil
}

// RecordCompletedSession claims the record id, then writes the player view
func (r *Repository) RecordCompletedSession(ctx context.Context, session models.CompletedSession) error {
	if err := storage.ValidateRecord(session); err != nil {
		return err
	}

	queryCtx, cancel, err := r.queryContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	insert := fmt.Sprintf(`
		INSERT INTO %s.completed_sessions (id, session_id, player_id, player_name, score, level,
			duration_seconds, hits, misses, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		IF NOT EXISTS`, r.client.Keyspace())

	applied, err := r.client.Session().Query(insert,
		session.ID,
		session.SessionID,
		session.PlayerID,
		session.PlayerName,
		session.Score,
		session.Level,
		session.DurationSeconds,
		session.Hits,
		session.Misses,
		session.RecordedAt,
	).WithContext(queryCtx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		r.logger.Error("Failed to record session in Cassandra",
			logger.F("record_id", session.ID),
			logger.Err(err))
		return fmt.Errorf("failed to record session: %w", err)
	}
	if !applied {
		return storage.ErrRecordExists
	}

	byPlayer := fmt.Sprintf(`
		INSERT INTO %s.matches_by_player (player_id, recorded_at, id, session_id, player_name, score, level,
			duration_seconds, hits, misses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.client.Keyspace())

	err = r.client.Session().Query(byPlayer,
		session.PlayerID,
		session.RecordedAt,
		session.ID,
		session.SessionID,
		session.PlayerName,
		session.Score,
		session.Level,
		session.DurationSeconds,
		session.Hits,
		session.Misses,
	).WithContext(queryCtx).Exec()
	if err != nil {
		r.logger.Error("Failed to index session by player",
			logger.F("record_id", session.ID),
			logger.F("player_id", session.PlayerID),
			logger.Err(err))
		return fmt.Errorf("failed to index session: %w", err)
	}

	r.logger.Debug("Session recorded", logger.F("record_id", session.ID))
	return nil
}

// TopScores scans the record table and ranks it in memory.
// TODO: keep a bucketed score table once record volume outgrows a full scan.
func (r *Repository) TopScores(ctx context.Context, limit int) ([]models.CompletedSession, error) {
	queryCtx, cancel, err := r.queryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, session_id, player_id, player_name, score, level,
			duration_seconds, hits, misses, recorded_at
		FROM %s.completed_sessions`, r.client.Keyspace())

	iter := r.client.Session().Query(query).WithContext(queryCtx).Iter()

	records := make([]models.CompletedSession, 0)
	var s models.CompletedSession
	for iter.Scan(
		&s.ID,
		&s.SessionID,
		&s.PlayerID,
		&s.PlayerName,
		&s.Score,
		&s.Level,
		&s.DurationSeconds,
		&s.Hits,
		&s.Misses,
		&s.RecordedAt,
	) {
		records = append(records, s)
	}

	if err := iter.Close(); err != nil {
		r.logger.Error("Failed to scan completed sessions", logger.Err(err))
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}

	storage.RankByScore(records)
	if limit = storage.ClampLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// PlayerHistory reads one player partition, newest first
func (r *Repository) PlayerHistory(ctx context.Context, playerID string) ([]models.CompletedSession, error) {
	queryCtx, cancel, err := r.queryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, session_id, player_id, player_name, score, level,
			duration_seconds, hits, misses, recorded_at
		FROM %s.matches_by_player
		WHERE player_id = ?`, r.client.Keyspace())

	iter := r.client.Session().Query(query, playerID).WithContext(queryCtx).Iter()

	records := make([]models.CompletedSession, 0)
	var s models.CompletedSession
	for iter.Scan(
		&s.ID,
		&s.SessionID,
		&s.PlayerID,
		&s.PlayerName,
		&s.Score,
		&s.Level,
		&s.DurationSeconds,
		&s.Hits,
		&s.Misses,
		&s.RecordedAt,
	) {
		records = append(records, s)
	}

	if err := iter.Close(); err != nil {
		r.logger.Error("Failed to get player history from Cassandra",
			logger.F("player_id", playerID),
			logger.Err(err))
		return nil, fmt.Errorf("failed to get player history: %w", err)
	}

	return records, nil
}

// Close closes the underlying client
func (r *Repository) Close() error {
	r.client.Close()
	return nil
}

var _ storage.Store = (*Repository)(nil)
