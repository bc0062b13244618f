package engine

import (
	"fmt"
	"strings"
	"time"
)

// Level is the difficulty chosen in setup. It fixes the starting time budget.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Levels lists the selectable levels in menu order.
var Levels = []Level{LevelEasy, LevelMedium, LevelHard}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelEasy:
		return LevelEasy, true
	case LevelMedium:
		return LevelMedium, true
	case LevelHard:
		return LevelHard, true
	}
	return "", false
}

// Budget returns the starting time budget in seconds.
func (l Level) Budget() int {
	switch l {
	case LevelMedium:
		return 20
	case LevelHard:
		return 15
	default:
		return 30
	}
}

// Label returns the display name.
func (l Level) Label() string {
	switch l {
	case LevelMedium:
		return "Medium"
	case LevelHard:
		return "Hard"
	default:
		return "Easy"
	}
}

// Weapon is a purely cosmetic crosshair variant.
type Weapon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Size  int    `json:"size"`
}

// Weapons is the fixed, ordered weapon list cycled by SwitchWeapon.
var Weapons = []Weapon{
	{ID: "gun1", Name: "Pistol", Color: "#64748b", Size: 40},
	{ID: "gun2", Name: "Rifle", Color: "#475569", Size: 50},
}

// TargetPalette holds the cosmetic target colors.
var TargetPalette = []string{"#ef4444", "#f59e0b", "#10b981", "#3b82f6", "#8b5cf6"}

// Rules holds every tunable of a session. Use DefaultRules and override
// individual fields; the defaults must not change without product input.
type Rules struct {
	// Scoring
	PointsPerHit int
	MissPenalty  int // seconds

	// Timing
	TickInterval   time.Duration
	SpawnInterval  time.Duration
	CountdownFrom  int
	InitialTargets int
	InitialStagger time.Duration

	// Geometry, in board units
	BoardWidth  float64
	BoardHeight float64
	Margin      float64
	TargetSize  float64

	// Display
	ShotHistoryLimit int
}

// DefaultRules returns the shipped game tuning.
func DefaultRules() Rules {
	return Rules{
		PointsPerHit:     10,
		MissPenalty:      5,
		TickInterval:     time.Second,
		SpawnInterval:    3 * time.Second,
		CountdownFrom:    3,
		InitialTargets:   3,
		InitialStagger:   500 * time.Millisecond,
		BoardWidth:       1000,
		BoardHeight:      600,
		Margin:           50,
		TargetSize:       60,
		ShotHistoryLimit: 20,
	}
}

// Validate reports the first inconsistent field.
func (r Rules) Validate() error {
	switch {
	case r.PointsPerHit <= 0:
		return fmt.Errorf("points per hit must be positive")
	case r.MissPenalty < 0:
		return fmt.Errorf("miss penalty must not be negative")
	case r.TickInterval <= 0:
		return fmt.Errorf("tick interval must be positive")
	case r.SpawnInterval <= 0:
		return fmt.Errorf("spawn interval must be positive")
	case r.CountdownFrom < 0:
		return fmt.Errorf("countdown must not be negative")
	case r.InitialTargets < 0 || r.InitialStagger < 0:
		return fmt.Errorf("initial batch must not be negative")
	case r.TargetSize <= 0:
		return fmt.Errorf("target size must be positive")
	case r.Margin < r.TargetSize/2:
		return fmt.Errorf("margin %.0f cannot hold a target of size %.0f", r.Margin, r.TargetSize)
	case r.BoardWidth-3*r.Margin <= 0 || r.BoardHeight-3*r.Margin <= 0:
		return fmt.Errorf("board %.0fx%.0f too small for margin %.0f", r.BoardWidth, r.BoardHeight, r.Margin)
	}
	return nil
}
