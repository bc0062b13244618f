package engine

import (
	"strings"
	"testing"
	"time"
)

func TestRules_Instructions(t *testing.T) {
	tests := []struct {
		name     string
		rules    func() Rules
		expected []string
	}{
		{
			name:     "defaults",
			rules:    DefaultRules,
			expected: []string{"score 10 points", "costs 5 seconds", "every 3 seconds"},
		},
		{
			name: "overridden",
			rules: func() Rules {
				r := DefaultRules()
				r.PointsPerHit = 25
				r.MissPenalty = 1
				r.SpawnInterval = 1500 * time.Millisecond
				return r
			},
			expected: []string{"score 25 points", "costs 1 second of", "every 1.5 seconds"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Join(tt.rules().Instructions(), "\n")
			for _, want := range tt.expected {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in %q", want, text)
				}
			}
		})
	}
}
