// Package world holds the static obstacle field agents move through.
//
// A Field is the set of grid cells covered by the rasterised edges of the
// configured polygons plus a square boundary wall. It is built once and is
// read-only afterwards, so any number of agents may query it concurrently.
package world

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

// BoundaryOwner is reported by Field.Owner for cells of the boundary wall.
const BoundaryOwner = -1

// Polygon is an implicitly closed sequence of vertices.
type Polygon []phys.Vec2

// distinct counts distinct vertices, stopping early at limit.
func (p Polygon) distinct(limit int) int {
	seen := make([]phys.Vec2, 0, limit)
	for _, v := range p {
		if !slices.Contains(seen, v) {
			seen = append(seen, v)
			if len(seen) >= limit {
				break
			}
		}
	}
	return len(seen)
}

// Field is an immutable occupancy set of grid cells.
type Field struct {
	cells       map[phys.Cell]int
	polygons    []Polygon
	boundary    int
	fingerprint uint64
}

// Build rasterises every polygon edge, including the closing edge from the
// last vertex back to the first, and the four boundary lines x=0, x=size,
// y=0 and y=size.
func Build(polygons []Polygon, size int) (*Field, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBoundary, size)
	}
	f := &Field{
		cells:    make(map[phys.Cell]int, 4*(size+1)),
		polygons: make([]Polygon, len(polygons)),
		boundary: size,
	}

	for i := 0; i <= size; i++ {
		f.cells[phys.C(0, i)] = BoundaryOwner
		f.cells[phys.C(size, i)] = BoundaryOwner
		f.cells[phys.C(i, 0)] = BoundaryOwner
		f.cells[phys.C(i, size)] = BoundaryOwner
	}

	var edge []phys.Cell
	for pi, poly := range polygons {
		if poly.distinct(2) < 2 {
			return nil, fmt.Errorf("polygon %d: %w", pi, ErrDegeneratePolygon)
		}
		f.polygons[pi] = slices.Clone(poly)
		for vi := range poly {
			next := poly[(vi+1)%len(poly)]
			edge = phys.AppendLine(edge[:0], poly[vi], next)
			for _, c := range edge {
				if _, taken := f.cells[c]; !taken {
					f.cells[c] = pi
				}
			}
		}
	}

	f.fingerprint = f.hash()
	return f, nil
}

// Contains reports whether c is occupied.
func (f *Field) Contains(c phys.Cell) bool {
	_, ok := f.cells[c]
	return ok
}

// Owner returns the index of the polygon that first covered c, or
// BoundaryOwner for wall cells.
func (f *Field) Owner(c phys.Cell) (int, bool) {
	o, ok := f.cells[c]
	return o, ok
}

// Len returns the number of occupied cells.
func (f *Field) Len() int { return len(f.cells) }

// Boundary returns the side length of the square field.
func (f *Field) Boundary() int { return f.boundary }

// Polygons returns a deep copy of the obstacle polygons.
func (f *Field) Polygons() []Polygon {
	out := make([]Polygon, len(f.polygons))
	for i, p := range f.polygons {
		out[i] = slices.Clone(p)
	}
	return out
}

// Fingerprint identifies the occupied cell set independently of map order.
func (f *Field) Fingerprint() uint64 { return f.fingerprint }

func (f *Field) hash() uint64 {
	cells := make([]phys.Cell, 0, len(f.cells))
	for c := range f.cells {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b phys.Cell) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})

	d := xxhash.New()
	var buf [16]byte
	for _, c := range cells {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(c.X)))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(c.Y)))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
