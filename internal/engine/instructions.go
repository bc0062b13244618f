package engine

import (
	"fmt"
	"time"
)

// Instructions returns the how-to-play text for these rules.
func (r Rules) Instructions() []string {
	return []string{
		"Choose a level and a weapon, then start.",
		fmt.Sprintf("Click a target to score %d points.", r.PointsPerHit),
		fmt.Sprintf("Missing costs %s of time.", seconds(time.Duration(r.MissPenalty)*time.Second)),
		fmt.Sprintf("A new target appears every %s.", seconds(r.SpawnInterval)),
		"Press Space to switch weapons and Esc to pause.",
		"The game ends when the time runs out.",
	}
}

func seconds(d time.Duration) string {
	if d == time.Second {
		return "1 second"
	}
	return fmt.Sprintf("%g seconds", d.Seconds())
}
