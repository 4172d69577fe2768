package npc

import (
	"testing"

	"github.com/stretchr/testify/require"
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

// scripted replays fixed uniform and normal draws and counts them.
type scripted struct {
	uniform []float64
	normal  []float64
	nu, nn  int
}

func (s *scripted) Float64() float64 {
	v := s.uniform[s.nu%len(s.uniform)]
	s.nu++
	return v
}

func (s *scripted) NormFloat64() float64 {
	v := s.normal[s.nn%len(s.normal)]
	s.nn++
	return v
}

func canonicalSensors(length float64) []Sensor {
	out := make([]Sensor, len(CanonicalLayout))
	for i, ss := range CanonicalLayout {
		out[i] = Sensor{SensorSpec: ss, Length: length}
	}
	return out
}

// wall returns a vertical line of occupied cells at x.
func wall(x int) cellSet {
	s := cellSet{}
	for y := -100; y <= 200; y++ {
		s[phys.C(x, y)] = true
	}
	return s
}

func TestControllerSteer(t *testing.T) {
	ctrl := DefaultController()

	t.Run("Random Walk When Nothing Triggers", func(t *testing.T) {
		rnd := &scripted{uniform: []float64{0.9}, normal: []float64{1.5}}
		st := ctrl.Steer(canonicalSensors(10), phys.V(50, 50), phys.Up, cellSet{}, rnd)

		require.True(t, st.Wandered)
		require.Zero(t, st.Triggered)
		require.InDelta(t, 1.5*DefaultWanderSigma, st.Rotation, 1e-12)
		require.Equal(t, 1, rnd.nu)
		require.Equal(t, 1, rnd.nn)
	})

	t.Run("Wall On The Right Turns Left", func(t *testing.T) {
		// right sensor hits at index 5 of 10; mid-right (45deg) reaches x=55 too
		rnd := &scripted{uniform: []float64{0.9}, normal: []float64{0}}
		st := ctrl.Steer(canonicalSensors(10), phys.V(50, 50), phys.Up, wall(55), rnd)

		require.False(t, st.Wandered)
		require.Equal(t, 2, st.Triggered)
		require.True(t, st.Readings[3].Hit)
		require.True(t, st.Readings[4].Hit)
		want := st.Readings[3].Magnitude + st.Readings[4].Magnitude
		require.InDelta(t, want, st.Rotation, 1e-12)
		require.Greater(t, st.Rotation, 0.0)
		require.Zero(t, rnd.nn)
	})

	t.Run("Wall On The Left Turns Right", func(t *testing.T) {
		rnd := &scripted{uniform: []float64{0.1}, normal: []float64{0}}
		st := ctrl.Steer(canonicalSensors(10), phys.V(50, 50), phys.Up, wall(45), rnd)

		require.Equal(t, 2, st.Triggered)
		require.Less(t, st.Rotation, 0.0)
	})

	t.Run("Centre Sign Follows Coin", func(t *testing.T) {
		field := cellSet{phys.C(50, 50): true}
		centre := []Sensor{{SensorSpec: CanonicalLayout[2], Length: 10}}

		st := ctrl.Steer(centre, phys.V(50, 50), phys.Up, field, &scripted{uniform: []float64{0.7}, normal: []float64{0}})
		require.Equal(t, 1.2, st.Rotation)

		st = ctrl.Steer(centre, phys.V(50, 50), phys.Up, field, &scripted{uniform: []float64{0.2}, normal: []float64{0}})
		require.Equal(t, -1.2, st.Rotation)
	})

	t.Run("Agreeing Sensors Amplify", func(t *testing.T) {
		// both right-hand sensors hit at the agent's own cell: 0.85 + 0.6
		rnd := &scripted{uniform: []float64{0.9}, normal: []float64{0}}
		sensors := canonicalSensors(10)[3:]
		st := ctrl.Steer(sensors, phys.V(50, 50), phys.Up, cellSet{phys.C(50, 50): true}, rnd)

		require.InDelta(t, 1.45, st.Rotation, 1e-12)
	})

	t.Run("Sensor Ends Updated", func(t *testing.T) {
		sensors := canonicalSensors(10)
		ctrl.Steer(sensors, phys.V(50, 50), phys.Up, cellSet{}, &scripted{uniform: []float64{0.9}, normal: []float64{0}})

		require.InDelta(t, 40, sensors[0].End.X, 1e-9)
		require.InDelta(t, 50, sensors[0].End.Y, 1e-9)
		require.InDelta(t, 60, sensors[4].End.X, 1e-9)
		require.InDelta(t, 60, sensors[2].End.Y, 1e-9)
	})
}
