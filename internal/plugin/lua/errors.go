package lua

import "errors"

// Errors for Lua script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrBadResult is returned when a handler result cannot be applied.
	ErrBadResult = errors.New("lua handler returned an invalid result")
)
