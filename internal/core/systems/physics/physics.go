package physics

// Lightweight 2D geometry for the sensor simulation.
// Vectors are plain values: every operation returns a new Vec2 and never
// mutates its receiver.

import "math"

// Vec2 is a real-valued point or direction in the plane.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Up is the initial heading of every agent.
var Up = Vec2{X: 0, Y: 1}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }
func (v Vec2) Norm() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) Cell() Cell           { return CellOf(v) }

// Rotate returns v rotated counter-clockwise by theta radians.
// The rotation is norm preserving up to floating point error.
func (v Vec2) Rotate(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
