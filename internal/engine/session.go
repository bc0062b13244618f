package engine

import (
	"fmt"
	"time"

	"github.com/molkiya/shooting-range/internal/models"
)

// State is the phase of a play session.
type State int

const (
	StateSetup State = iota
	StateCountdown
	StatePlaying
	StatePaused
	StateGameOver
)

var stateNames = [...]string{"setup", "countdown", "playing", "paused", "gameover"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Target is a spawned, clickable circle. X and Y are its center.
type Target struct {
	ID        int64     `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Radius    float64   `json:"radius"`
	Color     string    `json:"color"`
	SpawnedAt time.Time `json:"spawned_at"`
}

// Contains reports whether (x, y) lies within the target's radius.
func (t Target) Contains(x, y float64) bool {
	dx, dy := x-t.X, y-t.Y
	return dx*dx+dy*dy <= t.Radius*t.Radius
}

// Shot is one entry of the shot log.
type Shot struct {
	At       time.Time `json:"at"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Hit      bool      `json:"hit"`
	Points   int       `json:"points"`
	TargetID int64     `json:"target_id,omitempty"`
}

// Point is a board-relative coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShotResult reports what a shoot event did.
type ShotResult struct {
	Applied  bool  `json:"applied"`
	Hit      bool  `json:"hit"`
	TargetID int64 `json:"target_id,omitempty"`
	Points   int   `json:"points"`
}

// Snapshot is a consistent copy of a session for rendering.
type Snapshot struct {
	ID             string        `json:"id"`
	Seed           string        `json:"seed"`
	Player         models.Player `json:"player"`
	State          State         `json:"state"`
	Level          Level         `json:"level"`
	Budget         int           `json:"budget"`
	Weapon         int           `json:"weapon"`
	WeaponName     string        `json:"weapon_name"`
	Score          int           `json:"score"`
	TimeRemaining  int           `json:"time_remaining"`
	CountdownValue int           `json:"countdown_value"`
	Elapsed        int           `json:"elapsed"`
	Hits           int           `json:"hits"`
	Misses         int           `json:"misses"`
	Targets        []Target      `json:"targets"`
	RecentShots    []Shot        `json:"recent_shots"`
	Pointer        Point         `json:"pointer"`
	Recorded       bool          `json:"recorded"`
	Closed         bool          `json:"closed"`
}

// EventKind names a controller notification.
type EventKind string

const (
	EventState     EventKind = "state"
	EventCountdown EventKind = "countdown"
	EventTick      EventKind = "tick"
	EventSpawn     EventKind = "spawn"
	EventHit       EventKind = "hit"
	EventMiss      EventKind = "miss"
	EventWeapon    EventKind = "weapon"
	EventRecorded  EventKind = "recorded"
	EventClosed    EventKind = "closed"
)

// Event is emitted after every state change of a session.
type Event struct {
	Kind          EventKind `json:"kind"`
	SessionID     string    `json:"session_id"`
	State         State     `json:"state"`
	Score         int       `json:"score"`
	TimeRemaining int       `json:"time_remaining"`
	Countdown     int       `json:"countdown"`
	Weapon        int       `json:"weapon"`
	Target        *Target   `json:"target,omitempty"`
	Shot          *Shot     `json:"shot,omitempty"`
}
