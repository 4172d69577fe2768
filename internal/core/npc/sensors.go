package npc

import (
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

// Obstacles is the read-only occupancy query a sensor casts against.
type Obstacles interface {
	Contains(c phys.Cell) bool
}

// SensorSpec is the fixed part of a sensor: where it points relative to the
// heading and how hard it steers at full proximity.
type SensorSpec struct {
	Name   string
	Offset float64 // radians, counter-clockwise from heading
	Weight float64 // rotation in radians at proximity 1

	// RandomSign flips the sign of Weight at random once per tick.
	RandomSign bool
}

// CanonicalLayout is the five-sensor fan every agent carries by default.
var CanonicalLayout = []SensorSpec{
	{Name: "left", Offset: phys.Radians(90), Weight: -0.6},
	{Name: "mid-left", Offset: phys.Radians(45), Weight: -0.85},
	{Name: "centre", Offset: 0, Weight: 1.2, RandomSign: true},
	{Name: "mid-right", Offset: phys.Radians(-45), Weight: 0.85},
	{Name: "right", Offset: phys.Radians(-90), Weight: 0.6},
}

// Sensor is one proximity ray owned by a single agent.
type Sensor struct {
	SensorSpec
	Length float64

	// End is the terminus of the last cast: the hit position, or the far
	// end of the ray on a miss. It only feeds snapshots.
	End phys.Vec2
}

// Reading is the outcome of a single cast.
type Reading struct {
	Hit bool
	// Index of the first occupied cell along the ray and the ray's cell count.
	Index, Steps int
	// Proximity is 1 - Index/Steps: 1 at the agent, towards 0 at the far end.
	Proximity float64
	// Magnitude is Weight scaled into [0.5, 1] of itself by proximity, 0 on a miss.
	Magnitude float64
	Cell      phys.Cell
	End       phys.Vec2
}

// Cast traces the sensor ray from pos along heading rotated by the sensor
// offset and reports the nearest occupied cell. The sensor's End is updated.
func (s *Sensor) Cast(pos, heading phys.Vec2, field Obstacles) Reading {
	dir := heading.Rotate(s.Offset)
	end := pos.Add(dir.Scale(s.Length))

	cells := phys.Line(pos, end)
	_, step := phys.LineStep(pos, end)

	r := Reading{Steps: len(cells), End: end}
	for i, c := range cells {
		if !field.Contains(c) {
			continue
		}
		r.Hit = true
		r.Index = i
		r.Cell = c
		r.Proximity = 1 - float64(i)/float64(len(cells))
		r.Magnitude = s.Weight * (0.5 + 0.5*r.Proximity)
		r.End = phys.At(pos, step, i)
		break
	}

	s.End = r.End
	return r
}
