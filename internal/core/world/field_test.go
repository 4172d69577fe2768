package world

import (
	"testing"

	"github.com/stretchr/testify/require"
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

func square(x0, y0, x1, y1 float64) Polygon {
	return Polygon{phys.V(x0, y0), phys.V(x0, y1), phys.V(x1, y1), phys.V(x1, y0)}
}

func TestBuild(t *testing.T) {
	t.Run("Boundary Only", func(t *testing.T) {
		f, err := Build(nil, 100)
		require.NoError(t, err)

		for _, c := range []phys.Cell{phys.C(0, 0), phys.C(100, 100), phys.C(0, 100), phys.C(100, 0), phys.C(0, 37), phys.C(64, 100)} {
			require.True(t, f.Contains(c), "expected wall cell %v", c)
		}
		require.False(t, f.Contains(phys.C(50, 50)))
		require.False(t, f.Contains(phys.C(101, 0)))
		require.Equal(t, 400, f.Len())
		require.Equal(t, 100, f.Boundary())
	})

	t.Run("Polygon Edges Include Closing Edge", func(t *testing.T) {
		f, err := Build([]Polygon{square(60, 60, 70, 70)}, 100)
		require.NoError(t, err)

		// left, top, right edges
		require.True(t, f.Contains(phys.C(60, 65)))
		require.True(t, f.Contains(phys.C(65, 70)))
		require.True(t, f.Contains(phys.C(70, 65)))
		// closing edge (70,60) -> (60,60)
		require.True(t, f.Contains(phys.C(65, 60)))
		require.False(t, f.Contains(phys.C(65, 65)))

		owner, ok := f.Owner(phys.C(65, 60))
		require.True(t, ok)
		require.Equal(t, 0, owner)

		owner, ok = f.Owner(phys.C(0, 0))
		require.True(t, ok)
		require.Equal(t, BoundaryOwner, owner)
	})

	t.Run("Covered Interior Point", func(t *testing.T) {
		f, err := Build([]Polygon{{phys.V(40, 50), phys.V(60, 50), phys.V(50, 55)}}, 100)
		require.NoError(t, err)
		require.True(t, f.Contains(phys.C(50, 50)))
	})

	t.Run("Degenerate Polygon", func(t *testing.T) {
		_, err := Build([]Polygon{square(1, 1, 5, 5), {phys.V(3, 3), phys.V(3, 3), phys.V(3, 3)}}, 10)
		require.ErrorIs(t, err, ErrDegeneratePolygon)
		require.Contains(t, err.Error(), "polygon 1")

		_, err = Build([]Polygon{{}}, 10)
		require.ErrorIs(t, err, ErrDegeneratePolygon)
	})

	t.Run("Invalid Boundary", func(t *testing.T) {
		_, err := Build(nil, 0)
		require.ErrorIs(t, err, ErrInvalidBoundary)
	})

	t.Run("Polygons Are Copied", func(t *testing.T) {
		in := []Polygon{square(10, 10, 20, 20)}
		f, err := Build(in, 50)
		require.NoError(t, err)

		in[0][0] = phys.V(0, 0)
		out := f.Polygons()
		require.Equal(t, phys.V(10, 10), out[0][0])
		out[0][1] = phys.V(1, 1)
		require.Equal(t, phys.V(10, 20), f.Polygons()[0][1])
	})
}

func TestFingerprint(t *testing.T) {
	a, err := Build([]Polygon{square(60, 60, 70, 70)}, 100)
	require.NoError(t, err)
	b, err := Build([]Polygon{square(60, 60, 70, 70)}, 100)
	require.NoError(t, err)
	c, err := Build(nil, 100)
	require.NoError(t, err)

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
