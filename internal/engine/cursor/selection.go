package cursor

import (
	"fmt"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
)

// Kind distinguishes text selections from node selections.
type Kind uint8

const (
	// KindText is a cursor or a range of inline content.
	KindText Kind = iota
	// KindNode selects exactly one selectable atomic node.
	KindNode
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindNode {
		return "node"
	}
	return "text"
}

// Selection represents the user's selection.
// Anchor is where the selection started; Head is where typing occurs.
// A node selection has Anchor before and Head after the selected node.
// Selection is an immutable value type.
type Selection struct {
	Kind   Kind
	Anchor int
	Head   int
}

// Cursor creates a collapsed text selection at pos.
func Cursor(pos int) Selection {
	return Selection{Kind: KindText, Anchor: pos, Head: pos}
}

// TextSelection creates a text selection from anchor to head.
func TextSelection(anchor, head int) Selection {
	return Selection{Kind: KindText, Anchor: anchor, Head: head}
}

// NodeSelection selects the node starting at pos.
func NodeSelection(pos int) Selection {
	return Selection{Kind: KindNode, Anchor: pos, Head: pos + 1}
}

// FromStep converts a recorded selection step.
func FromStep(s transform.SelectionStep) Selection {
	if s.Node {
		return NodeSelection(s.Anchor)
	}
	return TextSelection(s.Anchor, s.Head)
}

// Step returns the selection as a transaction step.
func (s Selection) Step() *transform.SelectionStep {
	return &transform.SelectionStep{Anchor: s.Anchor, Head: s.Head, Node: s.Kind == KindNode}
}

// IsNode reports whether this is a node selection.
func (s Selection) IsNode() bool {
	return s.Kind == KindNode
}

// Empty reports whether the selection has no extent (just a cursor).
func (s Selection) Empty() bool {
	return s.Kind == KindText && s.Anchor == s.Head
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

// IsForward returns true if the selection extends forward (head >= anchor).
func (s Selection) IsForward() bool {
	return s.Head >= s.Anchor
}

// Clamp returns a selection clamped to [0, size]. Node selections that
// no longer fit become cursors.
func (s Selection) Clamp(size int) Selection {
	clamp := func(p int) int { return max(0, min(p, size)) }
	if s.Kind == KindNode {
		if s.Anchor < 0 || s.Head > size {
			return Cursor(clamp(s.Anchor))
		}
		return s
	}
	return TextSelection(clamp(s.Anchor), clamp(s.Head))
}

// Map carries the selection through a mapping. A node selection whose
// node was deleted becomes a cursor where the node was.
func (s Selection) Map(m transform.Mappable) Selection {
	if s.Kind == KindNode {
		r := m.MapResult(s.Anchor, 1)
		if r.Deleted {
			return Cursor(r.Pos)
		}
		return NodeSelection(r.Pos)
	}
	return TextSelection(m.Map(s.Anchor, 1), m.Map(s.Head, 1))
}

// Node returns the node of a node selection, or nil.
func (s Selection) Node(doc *model.Node) *model.Node {
	if s.Kind != KindNode {
		return nil
	}
	return doc.NodeAt(s.Anchor)
}

// Valid checks that the selection fits doc: both endpoints resolve and a
// node selection covers a selectable atomic node.
func (s Selection) Valid(doc *model.Node) error {
	size := doc.Content().Size()
	if s.Anchor < 0 || s.Head < 0 || s.Anchor > size || s.Head > size {
		return fmt.Errorf("%w: %s in [0, %d]", ErrInvalidSelection, s, size)
	}
	if s.Kind == KindNode {
		n := doc.NodeAt(s.Anchor)
		if n == nil || !n.IsAtom() || !n.Type().Selectable || s.Head != s.Anchor+n.Size() {
			return fmt.Errorf("%w: %s does not cover a selectable atom", ErrInvalidSelection, s)
		}
		return nil
	}
	for _, p := range []int{s.Anchor, s.Head} {
		if _, err := doc.Resolve(p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
	}
	return nil
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	switch {
	case s.Kind == KindNode:
		return fmt.Sprintf("Node(%d)", s.Anchor)
	case s.Empty():
		return fmt.Sprintf("Cursor(%d)", s.Head)
	case s.IsForward():
		return fmt.Sprintf("Selection(%d→%d)", s.Anchor, s.Head)
	default:
		return fmt.Sprintf("Selection(%d←%d)", s.Anchor, s.Head)
	}
}

// Equals returns true if two selections are identical.
func (s Selection) Equals(other Selection) bool {
	return s == other
}
