package model

import "errors"

// Errors returned by document operations.
var (
	// ErrOutOfRange indicates a position outside the document.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInsideAtom indicates a position strictly inside an atomic node.
	ErrInsideAtom = errors.New("position inside atomic node")

	// ErrInvalidContent indicates a node would receive children its type
	// does not accept.
	ErrInvalidContent = errors.New("invalid content for node")

	// ErrOpenDepth indicates a slice whose open depths do not fit the
	// replaced range.
	ErrOpenDepth = errors.New("inconsistent open depths")

	// ErrIncompatibleJoin indicates an attempt to join nodes whose content
	// cannot be merged.
	ErrIncompatibleJoin = errors.New("cannot join incompatible nodes")

	// ErrUnknownAttr indicates an attribute the node type does not declare.
	ErrUnknownAttr = errors.New("unknown attribute")
)
