package engine

//go:generate mockgen -source=collaborators.go -destination=mocks/collaborators_mock.go -package=mocks

import (
	"context"

	"github.com/molkiya/shooting-range/internal/models"
)

// PlayerSource supplies the identity a completed session is attributed to.
type PlayerSource interface {
	CurrentPlayer() models.Player
}

// Recorder persists a completed session. It is called at most once per session.
type Recorder interface {
	RecordCompletedSession(ctx context.Context, session models.CompletedSession) error
}

// StaticPlayer is a PlayerSource that always returns the same player.
type StaticPlayer models.Player

func (p StaticPlayer) CurrentPlayer() models.Player {
	return models.Player(p)
}
