package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/transform"
)

// Chain returns a command that runs cmds in order and stops at the first
// that applies.
func Chain(cmds ...engine.Command) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		for _, cmd := range cmds {
			if tr, ok := cmd(st); ok {
				return tr, true
			}
		}
		return nil, false
	}
}

// done finishes a command: a poisoned transaction declines.
func done(tr *transform.Transaction) (*transform.Transaction, bool) {
	if tr == nil || tr.Err() != nil {
		return nil, false
	}
	return tr, true
}

// noop reports that a command applies but has nothing to change.
func noop() (*transform.Transaction, bool) {
	return nil, true
}
