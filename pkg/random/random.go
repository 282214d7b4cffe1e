// Package random provides a seedable, goroutine-safe pseudo-random source.
//
// Every random decision the scheduler makes (venue times, trip choice) is
// drawn from a *Random so a fixed seed replays the same plan.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// Random wraps a PCG generator behind a mutex.
type Random struct {
	rng  *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRandom creates a Random with the given seed.
// A zero seed is replaced with a cryptographically random one.
func NewRandom(seed int64) *Random {
	var actual uint64
	if seed == 0 {
		actual = cryptoSeed()
	} else {
		actual = uint64(seed)
	}
	return &Random{
		rng:  rand.New(rand.NewPCG(actual, actual^0x7A1B0C)),
		seed: actual,
	}
}

func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Seed returns the seed used to initialize the generator.
func (r *Random) Seed() uint64 {
	return r.seed
}

// IntN returns an int in [0, n). Non-positive n yields 0.
func (r *Random) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// IntRange returns an int in [lo, hi], both ends inclusive.
func (r *Random) IntRange(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
