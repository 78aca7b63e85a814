package domain

import (
	"math/rand"
	"sync"
	"time"
)

// RNG abstracts random number generation for deterministic testing.
// *math/rand.Rand satisfies it.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// LockedRNG serializes access to a *rand.Rand so concurrent actions can share it.
type LockedRNG struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRNG wraps rng, or a time-seeded source when rng is nil.
func NewLockedRNG(rng *rand.Rand) *LockedRNG {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LockedRNG{rng: rng}
}

// Intn returns a non-negative random int in [0, n).
func (l *LockedRNG) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}
