package rng

import (
	"math/rand"
	"sync"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeded is a deterministic generator backed by math/rand
// It is safe for concurrent use
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a generator that will always produce the same sequence for the same seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random number from 0 <= x < n
func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Intn(n)
}

// Chance returns true with the given probability (0.0 - 1.0)
func Chance(g Generator, probability float64) bool {
	if probability <= 0 {
		return false
	}

	if probability >= 1 {
		return true
	}

	return float64(g.Intn(1_000_000)) < probability*1_000_000
}
