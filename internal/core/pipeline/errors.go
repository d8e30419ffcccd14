// Package pipeline defines domain-specific errors
package pipeline

import "errors"

// Domain errors - defined once, used everywhere
var (
	ErrNilRegistry           = errors.New("registry cannot be nil")
	ErrUnknownNode           = errors.New("unknown node")
	ErrUnknownPort           = errors.New("unknown port")
	ErrPortDirectionMismatch = errors.New("port direction mismatch")
	ErrSelfLoop              = errors.New("self-loops are not allowed")
	ErrTargetPortOccupied    = errors.New("target input port already connected")
	ErrCycleDetected         = errors.New("cycle detected")
	ErrConnectionNotFound    = errors.New("connection not found")
	ErrInvalidConnection     = errors.New("invalid connection")
)
