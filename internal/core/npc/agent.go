package npc

import (
	"fmt"
	"math"

	"github.com/zeusync/sensorsim/internal/core/random"
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

// Upper bounds on per-tick work. A sensor rasterizes about one cell per unit
// of length every tick.
const (
	MaxSpeed        = 1 << 12
	MaxSensorLength = 1 << 12
)

// AgentSpec describes an agent at construction time.
type AgentSpec struct {
	ID    string
	Start phys.Vec2
	Speed float64

	// SensorLengths holds one length per layout entry, or a single length
	// shared by every sensor.
	SensorLengths []float64

	// Layout defaults to CanonicalLayout.
	Layout []SensorSpec

	// Display is opaque to the simulation and copied into snapshots.
	Display map[string]any
}

// Validate checks the spec without building an agent.
func (s AgentSpec) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}
	if !(s.Speed > 0) || s.Speed > MaxSpeed {
		return fmt.Errorf("%w: got %v", ErrInvalidSpeed, s.Speed)
	}
	if !finite(s.Start.X) || !finite(s.Start.Y) {
		return fmt.Errorf("%w: got %v", ErrInvalidStart, s.Start)
	}
	layout := s.layout()
	if len(layout) == 0 {
		return ErrEmptyLayout
	}
	if n := len(s.SensorLengths); n != 1 && n != len(layout) {
		return fmt.Errorf("%w: %d lengths for %d sensors", ErrSensorCount, n, len(layout))
	}
	for i, l := range s.SensorLengths {
		if !(l >= 0) || l > MaxSensorLength {
			return fmt.Errorf("sensor %d: %w: got %v", i, ErrInvalidLength, l)
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (s AgentSpec) layout() []SensorSpec {
	if s.Layout == nil {
		return CanonicalLayout
	}
	return s.Layout
}

// Agent is a point that moves along its heading and steers away from
// obstacles with a fixed fan of sensors. Agents never share mutable state.
type Agent struct {
	id       string
	position phys.Vec2
	heading  phys.Vec2
	speed    float64
	sensors  []Sensor
	display  map[string]any
	rnd      random.Stream
}

// NewAgent builds an agent heading up (0,1) at spec.Start. rnd must be
// owned by this agent alone.
func NewAgent(spec AgentSpec, rnd random.Stream) (*Agent, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("agent %q: %w", spec.ID, err)
	}
	if rnd == nil {
		return nil, fmt.Errorf("agent %q: %w", spec.ID, ErrMissingStream)
	}

	layout := spec.layout()
	sensors := make([]Sensor, len(layout))
	for i, ss := range layout {
		length := spec.SensorLengths[0]
		if len(spec.SensorLengths) > 1 {
			length = spec.SensorLengths[i]
		}
		sensors[i] = Sensor{SensorSpec: ss, Length: length}
		sensors[i].End = spec.Start.Add(phys.Up.Rotate(ss.Offset).Scale(length))
	}

	return &Agent{
		id:       spec.ID,
		position: spec.Start,
		heading:  phys.Up,
		speed:    spec.Speed,
		sensors:  sensors,
		display:  cloneDisplay(spec.Display),
		rnd:      rnd,
	}, nil
}

func (a *Agent) ID() string              { return a.id }
func (a *Agent) Position() phys.Vec2     { return a.position }
func (a *Agent) Heading() phys.Vec2      { return a.heading }
func (a *Agent) Speed() float64          { return a.speed }
func (a *Agent) Display() map[string]any { return cloneDisplay(a.display) }

// Sensors returns a copy of the agent's sensors.
func (a *Agent) Sensors() []Sensor {
	out := make([]Sensor, len(a.sensors))
	copy(out, a.sensors)
	return out
}

// HeadingDrift is how far the heading norm has wandered from 1.
func (a *Agent) HeadingDrift() float64 {
	return math.Abs(a.heading.Norm() - 1)
}

// Tick advances the agent one step: move along the current heading, sense
// from the new position, then rotate the heading. The turn only affects the
// next tick's movement, so an agent can step onto an obstacle cell before
// reacting to it.
func (a *Agent) Tick(field Obstacles, ctrl Controller) Steering {
	a.position = a.position.Add(a.heading.Scale(a.speed))
	st := ctrl.Steer(a.sensors, a.position, a.heading, field, a.rnd)
	a.heading = a.heading.Rotate(st.Rotation)
	return st
}

// cloneDisplay deep-copies the nested maps and lists config decoders produce.
func cloneDisplay(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneDisplay(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
