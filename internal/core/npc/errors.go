package npc

import "errors"

// Agent construction errors
var (
	ErrMissingID     = errors.New("agent ID is required")
	ErrInvalidSpeed  = errors.New("agent speed must be positive and finite")
	ErrInvalidStart  = errors.New("agent start must be finite")
	ErrInvalidLength = errors.New("sensor length must be finite and not negative")
	ErrSensorCount   = errors.New("sensor lengths do not match the sensor layout")
	ErrEmptyLayout   = errors.New("sensor layout is empty")
	ErrMissingStream = errors.New("agent random stream is required")
)
