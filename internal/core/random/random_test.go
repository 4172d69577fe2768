package random

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func draws(s Stream, n int) []float64 {
	out := make([]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, s.Float64(), s.NormFloat64())
	}
	return out
}

func TestSource(t *testing.T) {
	t.Run("Same Seed Same Agent", func(t *testing.T) {
		a := NewSource(42).Stream("robot-1")
		b := NewSource(42).Stream("robot-1")
		require.Equal(t, draws(a, 50), draws(b, 50))
	})

	t.Run("Different Agents Differ", func(t *testing.T) {
		src := NewSource(42)
		require.NotEqual(t, draws(src.Stream("robot-1"), 10), draws(src.Stream("robot-2"), 10))
	})

	t.Run("Different Seeds Differ", func(t *testing.T) {
		require.NotEqual(t, draws(NewSource(1).Stream("a"), 10), draws(NewSource(2).Stream("a"), 10))
	})

	t.Run("Seed", func(t *testing.T) {
		require.Equal(t, uint64(7), NewSource(7).Seed())
	})
}
