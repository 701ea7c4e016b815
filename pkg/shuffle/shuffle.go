// Package shuffle produces uniformly random permutations.
//
// The entropy source is always passed in. A Source is not goroutine-safe;
// callers create one per computation (see NewRandomSource) and never share
// it between concurrent computations. Tests pass NewSource(seed) to get
// reproducible permutations.
package shuffle

import "math/rand/v2"

// Source draws a uniform integer in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Factory returns a fresh Source for one computation.
type Factory func() Source

// NewSource returns a deterministic PCG source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a PCG source seeded from the runtime's global
// generator. Each call yields an independent instance.
func NewRandomSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Permute returns a uniformly random permutation of [0, n) using the
// Fisher-Yates shuffle: for i from n-1 down to 1, swap i with a uniform
// j in [0, i]. n <= 0 yields an empty slice.
func Permute(src Source, n int) []int {
	if n <= 0 {
		return []int{}
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
