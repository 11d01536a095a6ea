// Package random provides the seedable uniform source used for bonus rolls,
// airplane draws, roulette spins and bot moves.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source is a goroutine-safe PCG generator. It implements usecase.Random.
type Source struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// New returns a Source seeded with seed. A zero seed draws one from crypto/rand.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = cryptoSeed()
	}
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}
