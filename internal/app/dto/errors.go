package dto

import "errors"

// Execution errors
var (
	ErrNilGraph         = errors.New("graph is required")
	ErrExecutionFailed  = errors.New("graph execution failed")
	ErrExecutionAborted = errors.New("execution aborted")
)
