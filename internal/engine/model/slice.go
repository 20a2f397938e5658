package model

import "fmt"

// Slice is a piece of document cut out of its context. OpenStart and
// OpenEnd count how many ancestor levels are open on each side, so a
// slice holding the end of one paragraph and the start of the next has
// both set to 1.
type Slice struct {
	Content   Fragment
	OpenStart int
	OpenEnd   int
}

// EmptySlice replaces a range with nothing.
var EmptySlice = Slice{}

// NewSlice returns a slice over content.
func NewSlice(content Fragment, openStart, openEnd int) Slice {
	return Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// ClosedSlice returns a slice holding nodes with both sides closed.
func ClosedSlice(nodes ...*Node) Slice {
	return Slice{Content: NewFragment(nodes...)}
}

// Size is the number of positions the slice adds when inserted.
func (s Slice) Size() int {
	return s.Content.Size() - s.OpenStart - s.OpenEnd
}

// Equal reports whether both slices are the same.
func (s Slice) Equal(other Slice) bool {
	return s.OpenStart == other.OpenStart && s.OpenEnd == other.OpenEnd && s.Content.Equal(other.Content)
}

// String renders the slice for debugging.
func (s Slice) String() string {
	return fmt.Sprintf("%s(%d,%d)", s.Content, s.OpenStart, s.OpenEnd)
}
