package script

import (
	"errors"
	"fmt"
)

// Errors returned while reading or replaying scripts.
var (
	// ErrEmptyStep indicates a step that sets no field.
	ErrEmptyStep = errors.New("step sets no action")

	// ErrAmbiguousStep indicates a step that sets more than one field.
	ErrAmbiguousStep = errors.New("step sets more than one action")

	// ErrBadSelection indicates a select value that is not one or two
	// positions.
	ErrBadSelection = errors.New("select takes one or two positions")

	// ErrUnhandled indicates an action step nothing could apply.
	ErrUnhandled = errors.New("step had no effect")
)

// StepError reports the step a replay failed on.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
