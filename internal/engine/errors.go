package engine

import (
	"errors"

	"github.com/jearn/composer/internal/engine/history"
	"github.com/jearn/composer/internal/engine/tracking"
)

// Errors returned by editor operations.
var (
	// ErrNilTransaction indicates Dispatch was called without a transaction.
	ErrNilTransaction = errors.New("nil transaction")

	// ErrStaleTransaction indicates a transaction built on a document that
	// is no longer current.
	ErrStaleTransaction = errors.New("transaction built on a stale document")

	// ErrFailedTransaction indicates a transaction with a failed step.
	ErrFailedTransaction = errors.New("transaction has a failed step")

	// ErrRejected indicates a filter refused the transaction.
	ErrRejected = errors.New("transaction rejected")

	// ErrCharLimit indicates the change would exceed the character limit.
	ErrCharLimit = errors.New("character limit exceeded")

	// ErrInvalidDocument indicates an initial document that does not fit
	// the schema.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrSnapshotNotFound indicates a snapshot was not found.
	ErrSnapshotNotFound = tracking.ErrSnapshotNotFound

	// ErrRevisionNotFound indicates a revision was not found.
	ErrRevisionNotFound = tracking.ErrRevisionNotFound
)
