package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws so swaps can be asserted exactly.
type scriptedSource struct {
	draws []int
	calls []int
}

func (s *scriptedSource) IntN(n int) int {
	s.calls = append(s.calls, n)
	v := s.draws[0]
	s.draws = s.draws[1:]
	return v
}

func TestPermute(t *testing.T) {
	t.Run("empty for zero and negative n", func(t *testing.T) {
		require.Empty(t, Permute(NewSource(1), 0))
		require.Empty(t, Permute(NewSource(1), -3))
		require.NotNil(t, Permute(NewSource(1), 0))
	})

	t.Run("single element draws nothing", func(t *testing.T) {
		src := &scriptedSource{}
		require.Equal(t, []int{0}, Permute(src, 1))
		require.Empty(t, src.calls)
	})

	t.Run("walks from the top down with inclusive bounds", func(t *testing.T) {
		// i=3 j=0: [3 1 2 0]; i=2 j=2: same; i=1 j=0: [1 3 2 0]
		src := &scriptedSource{draws: []int{0, 2, 0}}
		got := Permute(src, 4)
		require.Equal(t, []int{1, 3, 2, 0}, got)
		require.Equal(t, []int{4, 3, 2}, src.calls)
	})

	t.Run("is a permutation", func(t *testing.T) {
		src := NewSource(42)
		for n := 1; n <= 50; n++ {
			got := Permute(src, n)
			require.Len(t, got, n)
			sorted := slices.Clone(got)
			slices.Sort(sorted)
			for i, v := range sorted {
				require.Equal(t, i, v)
			}
		}
	})

	t.Run("same seed gives same permutation", func(t *testing.T) {
		require.Equal(t, Permute(NewSource(7), 20), Permute(NewSource(7), 20))
	})

	t.Run("every position reachable", func(t *testing.T) {
		// With 3 elements all 6 orderings should appear over enough draws.
		src := NewSource(99)
		seen := map[[3]int]bool{}
		for i := 0; i < 600; i++ {
			p := Permute(src, 3)
			seen[[3]int{p[0], p[1], p[2]}] = true
		}
		require.Len(t, seen, 6)
	})
}

func TestNewRandomSource_Independent(t *testing.T) {
	a, b := NewRandomSource(), NewRandomSource()
	require.NotSame(t, a, b)
	require.Len(t, Permute(a, 10), 10)
}
