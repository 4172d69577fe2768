package physics

import (
	"fmt"
	"math"
)

// Cell is a discrete grid coordinate.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// C is shorthand for Cell{x, y}.
func C(x, y int) Cell { return Cell{X: x, Y: y} }

// CellOf discretises p by rounding each coordinate to the nearest integer.
// Ties round half away from zero, so (0.5, -0.5) maps to (1, -1).
func CellOf(p Vec2) Cell {
	return Cell{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Center returns the real-valued position of the cell.
func (c Cell) Center() Vec2 { return Vec2{X: float64(c.X), Y: float64(c.Y)} }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Less orders cells by X then Y.
func (c Cell) Less(o Cell) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}
