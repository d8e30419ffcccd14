// Package operator defines domain-specific errors
package operator

import "errors"

// Domain errors - defined once, used everywhere
var (
	// Registry errors
	ErrNilDescriptor = errors.New("descriptor cannot be nil")
	ErrDuplicateKind = errors.New("operator kind already registered")
	ErrUnknownKind   = errors.New("unknown operator kind")

	// Descriptor errors
	ErrInvalidKindID        = errors.New("invalid operator kind ID")
	ErrNilProcessFunc       = errors.New("descriptor has no process function")
	ErrDuplicateParameter   = errors.New("duplicate parameter name")
	ErrDuplicatePort        = errors.New("duplicate port name")
	ErrInvalidParameterName = errors.New("invalid parameter name")
	ErrInvalidParameterKind = errors.New("invalid parameter kind")
	ErrInvalidBounds        = errors.New("invalid parameter bounds")
	ErrInvalidPortName      = errors.New("invalid port name")
	ErrInvalidPortDirection = errors.New("invalid port direction")

	// Parameter assignment errors
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrTypeMismatch     = errors.New("parameter type mismatch")
	ErrOutOfRange       = errors.New("parameter value out of range")

	// Execution errors
	ErrMissingInput = errors.New("missing input")
)
