package script

import (
	"context"
	"fmt"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/input/event"
)

// Target is what a script is replayed against.
type Target interface {
	Handle(ev event.Event) (bool, error)
	SetSelection(sel cursor.Selection) error
	RunAction(name string) (bool, error)
	Undo() error
	Redo() error
}

// Grouper is implemented by targets that can record the edits made
// until end is called as a single undo entry.
type Grouper interface {
	Group(name string) (end func())
}

// Replay runs steps against t in order. It stops at the first failing
// step or when ctx is done.
func Replay(ctx context.Context, t Target, steps []Step) error {
	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return &StepError{Index: i, Step: step, Err: err}
		}
		if err := replayStep(ctx, t, step); err != nil {
			if err == ctx.Err() {
				return err
			}
			return &StepError{Index: i, Step: step, Err: err}
		}
	}
	return nil
}

// replayStep runs every repetition of step. Edits of one step undo as a
// unit when t is a Grouper.
func replayStep(ctx context.Context, t Target, step Step) error {
	if g, ok := t.(Grouper); ok && step.edits() {
		defer g.Group(step.String())()
	}
	for n := 0; n < step.Times(); n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := run(t, step); err != nil {
			return err
		}
	}
	return nil
}

func (s Step) edits() bool {
	_, sel := s.Selection()
	return !sel && !s.Undo && !s.Redo
}

func run(t Target, step Step) error {
	if sel, ok := step.Selection(); ok {
		return t.SetSelection(sel)
	}
	switch {
	case step.Undo:
		return t.Undo()
	case step.Redo:
		return t.Redo()
	case step.Action != "":
		ok, err := t.RunAction(step.Action)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnhandled, step.Action)
		}
		return nil
	}
	for _, ev := range step.Events() {
		if _, err := t.Handle(ev); err != nil {
			return err
		}
	}
	return nil
}
