package transform

import (
	"errors"
	"fmt"
)

// Errors reported by steps and transactions.
var (
	// ErrPoisoned is returned when adding steps to a transaction that
	// already failed.
	ErrPoisoned = errors.New("transaction already failed")

	// ErrBadSelection indicates a selection outside the document.
	ErrBadSelection = errors.New("selection out of range")
)

// StepError records which step of a transaction failed and why.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}
