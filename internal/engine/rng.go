package engine

import (
	"math/rand"
	"strconv"
)

// NewRand returns a generator driven by a xorshift64 source.
// The same seed always yields the same spawn sequence.
func NewRand(seed int64) *rand.Rand {
	src := &xorshiftSource{}
	src.Seed(seed)
	return rand.New(src)
}

// SeedFromString converts a seed string (numeric or UUID) to int64.
// Numeric strings are parsed directly; anything else is hashed.
func SeedFromString(seedStr string) int64 {
	if seed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
		return seed
	}

	var hash int64
	for _, b := range []byte(seedStr) {
		hash = hash*31 + int64(b)
	}
	if hash < 0 {
		hash = -hash
	}
	return hash
}

// xorshiftSource implements rand.Source64.
type xorshiftSource struct {
	state uint64
}

func (s *xorshiftSource) Seed(seed int64) {
	state := uint64(seed)
	if state == 0 {
		// zero is a fixed point of xorshift
		state = 0x9E3779B97F4A7C15
	}
	s.state = state
}

func (s *xorshiftSource) Uint64() uint64 {
	s.state = xorshift64(s.state)
	return s.state
}

func (s *xorshiftSource) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func xorshift64(state uint64) uint64 {
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	return state
}
