// Package randgen provides the seeded random sampling primitives the
// simulation kernel uses to generate jobs and jitter machine physics.
// All simulator randomness flows through a single Sampler so a run is
// reproducible end to end from one seed.
package randgen

import (
	"math/rand"
)

// Sampler holds a seeded RNG and the sampling helpers built on top of it.
type Sampler struct {
	rng *rand.Rand
}

// New creates a Sampler seeded with the given value.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))} //nolint:gosec
}

// Float64 returns a uniform sample in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

// Uniform returns a uniform sample in [lo, hi).
func (s *Sampler) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// IntRange returns a uniform integer sample in [lo, hi] (inclusive).
func (s *Sampler) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Intn returns a uniform integer sample in [0, n).
func (s *Sampler) Intn(n int) int {
	return s.rng.Intn(n)
}

// Chance reports true with the given probability in [0, 1].
func (s *Sampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Choice picks one element from a non-empty string slice.
func (s *Sampler) Choice(choices []string) string {
	return choices[s.rng.Intn(len(choices))]
}
