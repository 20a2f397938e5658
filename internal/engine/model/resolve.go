package model

import "fmt"

type level struct {
	node  *Node
	index int
	// offset is the absolute position where the child at index starts.
	offset int
}

// ResolvedPos is a position with the path of ancestors leading to it.
type ResolvedPos struct {
	Pos          int
	path         []level
	parentOffset int
}

// Resolve resolves pos inside n's content.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.content.Size() {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, pos, n.content.Size())
	}
	var path []level
	start, parentOffset := 0, pos
	node := n
	for {
		index, offset := node.content.FindIndex(parentOffset)
		rem := parentOffset - offset
		path = append(path, level{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		if node.IsLeaf() {
			return nil, fmt.Errorf("%w: %d", ErrInsideAtom, pos)
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, path: path, parentOffset: parentOffset}, nil
}

// Depth is the number of ancestors of the position, excluding the root.
func (r *ResolvedPos) Depth() int {
	return len(r.path) - 1
}

// Node returns the ancestor at depth d; 0 is the root.
func (r *ResolvedPos) Node(d int) *Node {
	return r.path[r.resolveDepth(d)].node
}

// Parent is the innermost ancestor.
func (r *ResolvedPos) Parent() *Node {
	return r.Node(r.Depth())
}

// Doc is the root the position was resolved in.
func (r *ResolvedPos) Doc() *Node {
	return r.path[0].node
}

// Index returns the index into the ancestor at depth d.
func (r *ResolvedPos) Index(d int) int {
	return r.path[r.resolveDepth(d)].index
}

// IndexAfter returns the index pointing after this position in the
// ancestor at depth d.
func (r *ResolvedPos) IndexAfter(d int) int {
	d = r.resolveDepth(d)
	if d == r.Depth() && r.TextOffset() == 0 {
		return r.path[d].index
	}
	return r.path[d].index + 1
}

// Start returns the position where the content of the ancestor at
// depth d starts.
func (r *ResolvedPos) Start(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		return 0
	}
	return r.path[d-1].offset + 1
}

// End returns the position where the content of the ancestor at depth d
// ends.
func (r *ResolvedPos) End(d int) int {
	d = r.resolveDepth(d)
	return r.Start(d) + r.path[d].node.content.Size()
}

// Before returns the position directly before the ancestor at depth d.
// d must be at least 1.
func (r *ResolvedPos) Before(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		return 0
	}
	if d == r.Depth()+1 {
		return r.Pos
	}
	return r.path[d-1].offset
}

// After returns the position directly after the ancestor at depth d.
// d must be at least 1.
func (r *ResolvedPos) After(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		return r.Doc().content.Size()
	}
	if d == r.Depth()+1 {
		return r.Pos
	}
	return r.path[d-1].offset + r.path[d].node.Size()
}

// ParentOffset is the offset of the position into its parent's content.
func (r *ResolvedPos) ParentOffset() int {
	return r.parentOffset
}

// TextOffset is the offset into a text run when the position points
// into one, otherwise 0.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.path[len(r.path)-1].offset
}

// NodeAfter returns the node directly after the position, or nil. When
// the position is inside a text run only the part after it is returned.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if index >= parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if off := r.TextOffset(); off > 0 {
		return child.Cut(off, child.runes)
	}
	return child
}

// NodeBefore returns the node directly before the position, or nil.
func (r *ResolvedPos) NodeBefore() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if off := r.TextOffset(); off > 0 {
		return parent.Child(index).Cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return parent.Child(index - 1)
}

// PosAtIndex returns the position of the child at index in the ancestor
// at depth d.
func (r *ResolvedPos) PosAtIndex(index, d int) int {
	d = r.resolveDepth(d)
	node := r.path[d].node
	pos := r.Start(d)
	for i := 0; i < index && i < node.ChildCount(); i++ {
		pos += node.Child(i).Size()
	}
	return pos
}

// SharedDepth returns the depth of the deepest ancestor that also
// contains pos.
func (r *ResolvedPos) SharedDepth(pos int) int {
	for d := r.Depth(); d > 0; d-- {
		if r.Start(d) <= pos && r.End(d) >= pos {
			return d
		}
	}
	return 0
}

// InInline reports whether the position lies in inline content.
func (r *ResolvedPos) InInline() bool {
	return r.Parent().IsTextblock()
}

func (r *ResolvedPos) resolveDepth(d int) int {
	if d < 0 {
		return r.Depth() + d
	}
	return d
}

// String renders the position as a path for debugging.
func (r *ResolvedPos) String() string {
	s := ""
	for d := 1; d <= r.Depth(); d++ {
		if s != "" {
			s += "/"
		}
		s += fmt.Sprintf("%s_%d", r.Node(d).Kind(), r.Index(d-1))
	}
	return fmt.Sprintf("%s:%d", s, r.parentOffset)
}
