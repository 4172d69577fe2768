package npc

import (
	"github.com/zeusync/sensorsim/internal/core/random"
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

// DefaultWanderSigma is the standard deviation, in radians, of the random
// walk applied when no sensor contributes.
const DefaultWanderSigma = 0.08

// Controller turns sensor readings into a single heading rotation.
type Controller struct {
	WanderSigma float64
}

// DefaultController returns the controller used by the simulation.
func DefaultController() Controller {
	return Controller{WanderSigma: DefaultWanderSigma}
}

// Steering is the controller's decision for one tick.
type Steering struct {
	Rotation  float64
	Triggered int  // sensors that reported a hit
	Wandered  bool // Rotation came from the random walk
	Readings  []Reading
}

// Steer casts every sensor from pos and sums their suggestions. The sum is
// neither clamped nor normalised, so agreeing sensors amplify each other.
// A net rotation of exactly zero is replaced by a Gaussian random walk.
func (c Controller) Steer(sensors []Sensor, pos, heading phys.Vec2, field Obstacles, rnd random.Stream) Steering {
	// one coin per tick, shared by every random-sign sensor
	flip := 1.0
	if rnd.Float64() < 0.5 {
		flip = -1
	}

	st := Steering{Readings: make([]Reading, len(sensors))}
	for i := range sensors {
		r := sensors[i].Cast(pos, heading, field)
		st.Readings[i] = r
		if !r.Hit {
			continue
		}
		st.Triggered++
		if sensors[i].RandomSign {
			st.Rotation += flip * r.Magnitude
		} else {
			st.Rotation += r.Magnitude
		}
	}

	if st.Rotation == 0 {
		st.Rotation = rnd.NormFloat64() * c.WanderSigma
		st.Wandered = true
	}
	return st
}
