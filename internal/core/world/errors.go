package world

import "errors"

// Obstacle field errors
var (
	ErrDegeneratePolygon = errors.New("polygon needs at least 2 distinct vertices")
	ErrInvalidBoundary   = errors.New("boundary size must be positive")
)
