// Package sqlite provides a SQLite-backed completed-session store used by
// the terminal game for local score keeping.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/storage"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// Store persists completed sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// dsn applies the pragmas on every pooled connection.
func dsn(path string) string {
	return filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// Open opens a SQLite store and applies the embedded schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordCompletedSession inserts one record.
func (s *Store) RecordCompletedSession(ctx context.Context, session models.CompletedSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateRecord(session); err != nil {
		return err
	}
	recordedAt := session.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO completed_sessions (
		   id,
		   session_id,
		   player_id,
		   player_name,
		   score,
		   level,
		   duration_seconds,
		   hits,
		   misses,
		   recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.SessionID,
		session.PlayerID,
		session.PlayerName,
		session.Score,
		session.Level,
		session.DurationSeconds,
		session.Hits,
		session.Misses,
		toMillis(recordedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrRecordExists
		}
		return fmt.Errorf("record completed session: %w", err)
	}
	return nil
}

const selectColumns = `id, session_id, player_id, player_name, score, level,
	duration_seconds, hits, misses, recorded_at`

// TopScores returns the best records, earlier records first on ties.
func (s *Store) TopScores(ctx context.Context, limit int) ([]models.CompletedSession, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+selectColumns+`
		 FROM completed_sessions
		 ORDER BY score DESC, recorded_at ASC, id ASC
		 LIMIT ?`,
		storage.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	return scanRecords(rows)
}

// PlayerHistory returns a player's records, newest first.
func (s *Store) PlayerHistory(ctx context.Context, playerID string) ([]models.CompletedSession, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+selectColumns+`
		 FROM completed_sessions
		 WHERE player_id = ?
		 ORDER BY recorded_at DESC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query player history: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.CompletedSession, error) {
	defer rows.Close()

	records := make([]models.CompletedSession, 0)
	for rows.Next() {
		var (
			record     models.CompletedSession
			recordedAt int64
		)
		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.PlayerID,
			&record.PlayerName,
			&record.Score,
			&record.Level,
			&record.DurationSeconds,
			&record.Hits,
			&record.Misses,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan completed session: %w", err)
		}
		record.RecordedAt = fromMillis(recordedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed sessions: %w", err)
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
