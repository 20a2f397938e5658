package transform

import (
	"fmt"

	"github.com/jearn/composer/internal/engine/model"
)

// Step is an atomic change. A step only makes sense for the document it
// was created for.
type Step interface {
	// Apply returns the transformed document or an error when the step
	// does not fit doc.
	Apply(doc *model.Node) (*model.Node, error)

	// Map describes how positions move when the step is applied.
	Map() StepMap

	// Invert returns the step that undoes this one. doc is the document
	// before the step was applied.
	Invert(doc *model.Node) Step

	String() string
}

// ReplaceStep replaces [From, To) with Slice. It covers insertion
// (From == To), deletion (empty slice) and structural replacement.
type ReplaceStep struct {
	From  int
	To    int
	Slice model.Slice
}

// NewReplaceStep returns a replace step.
func NewReplaceStep(from, to int, slice model.Slice) *ReplaceStep {
	return &ReplaceStep{From: from, To: to, Slice: slice}
}

// Apply implements Step.
func (s *ReplaceStep) Apply(doc *model.Node) (*model.Node, error) {
	return doc.Replace(s.From, s.To, s.Slice)
}

// Map implements Step.
func (s *ReplaceStep) Map() StepMap {
	return NewStepMap(Range{Start: s.From, OldSize: s.To - s.From, NewSize: s.Slice.Size()})
}

// Invert implements Step.
func (s *ReplaceStep) Invert(doc *model.Node) Step {
	removed, err := doc.Slice(s.From, s.To)
	if err != nil {
		removed = model.EmptySlice
	}
	return &ReplaceStep{From: s.From, To: s.From + s.Slice.Size(), Slice: removed}
}

// String implements Step.
func (s *ReplaceStep) String() string {
	return fmt.Sprintf("replace(%d, %d, %s)", s.From, s.To, s.Slice)
}

// SelectionStep records a selection change. It never touches the
// document and maps positions to themselves.
type SelectionStep struct {
	Anchor int
	Head   int
	// Node marks a node selection of the node starting at Anchor.
	Node bool
}

// Apply implements Step. It only checks the selection fits doc.
func (s *SelectionStep) Apply(doc *model.Node) (*model.Node, error) {
	size := doc.Content().Size()
	if s.Anchor < 0 || s.Head < 0 || s.Anchor > size || s.Head > size {
		return nil, fmt.Errorf("%w: %d..%d in [0, %d]", ErrBadSelection, s.Anchor, s.Head, size)
	}
	return doc, nil
}

// Map implements Step.
func (s *SelectionStep) Map() StepMap {
	return EmptyMap
}

// Invert implements Step. Selections are restored by the history from its
// own records.
func (s *SelectionStep) Invert(*model.Node) Step {
	return s
}

// String implements Step.
func (s *SelectionStep) String() string {
	if s.Node {
		return fmt.Sprintf("select-node(%d)", s.Anchor)
	}
	return fmt.Sprintf("select(%d, %d)", s.Anchor, s.Head)
}
