package simulation

import "errors"

// Configuration errors
var (
	ErrInvalidConfig   = errors.New("invalid simulation configuration")
	ErrDuplicateAgent  = errors.New("duplicate agent ID")
	ErrTooFewVertices  = errors.New("polygon needs at least 3 vertices")
	ErrUnknownFormat   = errors.New("unknown configuration file format")
	ErrInvalidInterval = errors.New("tick interval must be positive")
)
