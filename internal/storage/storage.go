package storage

//go:generate mockgen -source=storage.go -destination=mocks/store_mock.go -package=mocks

import (
	"context"
	"sort"

	"github.com/molkiya/shooting-range/internal/models"
)

// Recorder persists completed sessions. It is satisfied by every backend
// and plugs straight into the engine's save path.
type Recorder interface {
	RecordCompletedSession(ctx context.Context, session models.CompletedSession) error
}

// ScoreReader serves the leaderboard and match history views.
type ScoreReader interface {
	// TopScores returns up to limit records, best score first
	TopScores(ctx context.Context, limit int) ([]models.CompletedSession, error)

	// PlayerHistory returns a player's records, newest first
	PlayerHistory(ctx context.Context, playerID string) ([]models.CompletedSession, error)
}

// Store defines the interface for completed-session storage.
// This abstraction allows swapping implementations (SQLite, Redis, Cassandra)
// without changing the rest of the codebase.
type Store interface {
	Recorder
	ScoreReader
	Close() error
}

// DefaultTopScores is used when a caller asks for a non-positive limit.
const DefaultTopScores = 10

// MaxTopScores caps leaderboard reads.
const MaxTopScores = 100

// ClampLimit normalizes a leaderboard limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopScores
	}
	if limit > MaxTopScores {
		return MaxTopScores
	}
	return limit
}

// ValidateRecord rejects records that cannot be keyed by any backend.
func ValidateRecord(session models.CompletedSession) error {
	if session.ID == "" || session.PlayerID == "" {
		return ErrInvalidRecord
	}
	return nil
}

// RankByScore sorts records best first. Equal scores keep the earlier record
// ahead.
func RankByScore(records []models.CompletedSession) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.Before(b.RecordedAt)
		}
		return a.ID < b.ID
	})
}

// NewestFirst sorts records by recording time, most recent first.
func NewestFirst(records []models.CompletedSession) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})
}

// Errors
var (
	ErrRecordExists  = &StorageError{Message: "record already exists"}
	ErrInvalidRecord = &StorageError{Message: "record requires id and player id"}
)

// StorageError represents a storage error
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}
