package models

import "time"

// Player identifies who is playing a session
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// CompletedSession is the record persisted when a player saves a finished game.
// It serves both the score board and the match history views.
type CompletedSession struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	PlayerID        string    `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	Score           int       `json:"score"`
	Level           string    `json:"level"`
	DurationSeconds int       `json:"duration_seconds"`
	Hits            int       `json:"hits"`
	Misses          int       `json:"misses"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// CreateSessionRequest represents the request to open a new session in setup
type CreateSessionRequest struct {
	Level  string `json:"level,omitempty"`
	Weapon *int   `json:"weapon,omitempty"`
}

// StartSessionRequest represents the request to leave setup and begin the countdown
type StartSessionRequest struct {
	Level  string `json:"level"`
	Weapon *int   `json:"weapon,omitempty"`
}

// PointRequest carries board-relative coordinates for shoot and pointer input
type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SaveSessionResponse represents the response when a finished session is saved
type SaveSessionResponse struct {
	Saved  bool              `json:"saved"`
	Record *CompletedSession `json:"record,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
