package storage

import (
	"context"
	"sync"

	"github.com/molkiya/shooting-range/internal/models"
)

// MemoryStorage provides in-memory storage for completed sessions
type MemoryStorage struct {
	mu       sync.RWMutex
	records  map[string]models.CompletedSession
	byPlayer map[string][]string
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records:  make(map[string]models.CompletedSession),
		byPlayer: make(map[string][]string),
	}
}

// RecordCompletedSession stores a completed session
func (s *MemoryStorage) RecordCompletedSession(ctx context.Context, session models.CompletedSession) error {
	if err := ValidateRecord(session); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[session.ID]; exists {
		return ErrRecordExists
	}

	s.records[session.ID] = session
	s.byPlayer[session.PlayerID] = append(s.byPlayer[session.PlayerID], session.ID)
	return nil
}

// TopScores returns the best records across all players
func (s *MemoryStorage) TopScores(ctx context.Context, limit int) ([]models.CompletedSession, error) {
	s.mu.RLock()
	records := make([]models.CompletedSession, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	s.mu.RUnlock()

	RankByScore(records)
	if limit = ClampLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// PlayerHistory retrieves all records for a player
func (s *MemoryStorage) PlayerHistory(ctx context.Context, playerID string) ([]models.CompletedSession, error) {
	s.mu.RLock()
	ids := s.byPlayer[playerID]
	records := make([]models.CompletedSession, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.records[id])
	}
	s.mu.RUnlock()

	NewestFirst(records)
	return records, nil
}

// Close is a no-op for in-memory storage
func (s *MemoryStorage) Close() error {
	return nil
}
