package physics

import "math"

// LineStep returns the number of unit steps along the dominant axis of the
// segment p1->p2 and the per-step offset. n is zero for segments shorter
// than half a cell; step is then the zero vector.
func LineStep(p1, p2 Vec2) (n int, step Vec2) {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	n = int(math.Round(math.Max(math.Abs(dx), math.Abs(dy))))
	if n == 0 {
		return 0, Vec2{}
	}
	if dx != 0 {
		step.X = dx / float64(n)
	}
	if dy != 0 {
		step.Y = dy / float64(n)
	}
	return n, step
}

// Line rasterises the segment p1->p2 into an ordered sequence of cells,
// one per unit step along the dominant axis, starting at p1 and stopping
// one step short of p2. A degenerate segment yields the single cell of p1.
func Line(p1, p2 Vec2) []Cell {
	return AppendLine(nil, p1, p2)
}

// AppendLine is Line appending into dst.
func AppendLine(dst []Cell, p1, p2 Vec2) []Cell {
	n, step := LineStep(p1, p2)
	if n == 0 {
		return append(dst, CellOf(p1))
	}
	for k := 0; k < n; k++ {
		dst = append(dst, CellOf(At(p1, step, k)))
	}
	return dst
}

// At returns the real-valued position of the k-th step of a rasterised line.
func At(p1, step Vec2, k int) Vec2 {
	return Vec2{X: p1.X + float64(k)*step.X, Y: p1.Y + float64(k)*step.Y}
}
