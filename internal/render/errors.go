package render

import "errors"

var (
	// ErrStale is returned by a Handle whose node moved or changed since
	// the view was built.
	ErrStale = errors.New("render: view is stale")

	// ErrNotSelectable is returned by Select on nodes that cannot be
	// selected, such as mentions.
	ErrNotSelectable = errors.New("render: node is not selectable")

	// ErrNotCopyable is returned by CopyText on nodes other than math.
	ErrNotCopyable = errors.New("render: only math can be copied")

	// ErrNoClipboard is returned by CopyText when no clipboard is
	// configured.
	ErrNoClipboard = errors.New("render: no clipboard")
)
