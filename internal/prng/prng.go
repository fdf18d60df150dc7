// Package prng provides a small, explicitly-seeded pseudo-random number
// generator used wherever the driver needs deterministic randomness,
// chiefly the planner's batch-mode primary-input shuffle, which must
// produce the same partitioning across repeated invocations given the
// same -driver-batch-seed.
//
// math/rand/v2's top-level convenience functions are intentionally not
// seedable; this package wraps rand.NewPCG keyed off an explicit seed
// instead of the runtime's auto-seeded source.
package prng

import "math/rand/v2"

// Source is a deterministic PRNG. The zero value is not usable; build
// one with New.
type Source struct {
	r *rand.Rand
}

// New returns a PRNG seeded deterministically from seed. The same seed
// always produces the same sequence of outputs across processes and Go
// versions that keep PCG's algorithm stable.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int {
	return s.r.IntN(n)
}

// Shuffle permutes the first n elements of the slice accessed via swap,
// using the Fisher-Yates algorithm seeded by this Source. Mirrors the
// signature of rand.Shuffle so callers can pass it directly.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.r.IntN(i + 1)
		swap(i, j)
	}
}

// Permutation returns a deterministic random permutation of [0, n).
func (s *Source) Permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	s.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return perm
}
