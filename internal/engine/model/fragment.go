package model

import (
	"strings"

	"github.com/jearn/composer/internal/engine/schema"
)

// Fragment is an immutable, ordered sequence of sibling nodes.
// Adjacent text runs are always merged and empty text runs dropped.
type Fragment struct {
	nodes []*Node
	size  int
}

// EmptyFragment has no children.
var EmptyFragment = Fragment{}

// NewFragment builds a fragment, merging adjacent text runs.
func NewFragment(nodes ...*Node) Fragment {
	var f Fragment
	for _, n := range nodes {
		f.nodes = addNode(f.nodes, n)
	}
	for _, n := range f.nodes {
		f.size += n.Size()
	}
	return f
}

// addNode appends child to target, merging it into a trailing text run.
func addNode(target []*Node, child *Node) []*Node {
	if child == nil || (child.IsText() && child.text == "") {
		return target
	}
	if last := len(target) - 1; last >= 0 && child.IsText() && target[last].IsText() {
		merged := newText(child.typ, target[last].text+child.text)
		out := make([]*Node, len(target))
		copy(out, target)
		out[last] = merged
		return out
	}
	return append(target, child)
}

// Size returns the total size of the children.
func (f Fragment) Size() int {
	return f.size
}

// ChildCount returns the number of children.
func (f Fragment) ChildCount() int {
	return len(f.nodes)
}

// Child returns the child at index i.
func (f Fragment) Child(i int) *Node {
	return f.nodes[i]
}

// MaybeChild returns the child at index i or nil when out of range.
func (f Fragment) MaybeChild(i int) *Node {
	if i < 0 || i >= len(f.nodes) {
		return nil
	}
	return f.nodes[i]
}

// FirstChild returns the first child or nil.
func (f Fragment) FirstChild() *Node {
	return f.MaybeChild(0)
}

// LastChild returns the last child or nil.
func (f Fragment) LastChild() *Node {
	return f.MaybeChild(len(f.nodes) - 1)
}

// Nodes returns a copy of the children.
func (f Fragment) Nodes() []*Node {
	out := make([]*Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// Kinds returns the kinds of the children in order.
func (f Fragment) Kinds() []schema.Kind {
	kinds := make([]schema.Kind, len(f.nodes))
	for i, n := range f.nodes {
		kinds[i] = n.Kind()
	}
	return kinds
}

// Cut returns the part of the fragment between from and to.
func (f Fragment) Cut(from, to int) Fragment {
	if to > f.size {
		to = f.size
	}
	if from <= 0 && to == f.size {
		return f
	}
	var out []*Node
	if to > from {
		pos := 0
		for i := 0; i < len(f.nodes) && pos < to; i++ {
			child := f.nodes[i]
			end := pos + child.Size()
			if end > from {
				if pos < from || end > to {
					if child.IsText() {
						child = child.Cut(max(0, from-pos), min(child.runes, to-pos))
					} else {
						child = child.Cut(max(0, from-pos-1), min(child.content.Size(), to-pos-1))
					}
				}
				out = append(out, child)
			}
			pos = end
		}
	}
	return NewFragment(out...)
}

// Append returns the concatenation of f and other.
func (f Fragment) Append(other Fragment) Fragment {
	if other.size == 0 && len(other.nodes) == 0 {
		return f
	}
	if f.size == 0 && len(f.nodes) == 0 {
		return other
	}
	nodes := make([]*Node, 0, len(f.nodes)+len(other.nodes))
	nodes = append(nodes, f.nodes...)
	nodes = append(nodes, other.nodes...)
	return NewFragment(nodes...)
}

// ReplaceChild returns a copy with the child at index replaced.
func (f Fragment) ReplaceChild(index int, node *Node) Fragment {
	nodes := f.Nodes()
	nodes[index] = node
	return NewFragment(nodes...)
}

// AddToStart returns a copy with node prepended.
func (f Fragment) AddToStart(node *Node) Fragment {
	return NewFragment(append([]*Node{node}, f.nodes...)...)
}

// AddToEnd returns a copy with node appended.
func (f Fragment) AddToEnd(node *Node) Fragment {
	return NewFragment(append(f.Nodes(), node)...)
}

// FindIndex returns the index of the child containing pos and the offset
// at which that child starts. A position on a child boundary belongs to
// the child after it.
func (f Fragment) FindIndex(pos int) (index, offset int) {
	if pos <= 0 {
		return 0, 0
	}
	if pos >= f.size {
		return len(f.nodes), f.size
	}
	cur := 0
	for i, child := range f.nodes {
		end := cur + child.Size()
		if end >= pos {
			if end == pos {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(f.nodes), f.size
}

// Equal reports structural equality.
func (f Fragment) Equal(other Fragment) bool {
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Equal(other.nodes[i]) {
			return false
		}
	}
	return true
}

// TextBetween collects the text between from and to. blockSep is written
// between textblocks; leafText renders inline leaves (nil renders them as
// nothing).
func (f Fragment) TextBetween(from, to int, blockSep string, leafText func(*Node) string) string {
	var b strings.Builder
	first := true
	f.nodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		var text string
		switch {
		case node.IsText():
			text = runeSlice(node.text, max(from, pos)-pos, to-pos)
		case node.IsLeaf() && leafText != nil:
			text = leafText(node)
		}
		if node.IsBlock() && blockSep != "" && (node.IsTextblock() || (node.IsLeaf() && text != "")) {
			if first {
				first = false
			} else {
				b.WriteString(blockSep)
			}
		}
		b.WriteString(text)
		return true
	}, 0, nil)
	return b.String()
}

// NodesBetween calls fn for every node overlapping [from, to).
func (f Fragment) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool) {
	f.nodesBetween(from, to, fn, 0, nil)
}

func (f Fragment) nodesBetween(from, to int, fn func(*Node, int, *Node, int) bool, nodeStart int, parent *Node) {
	pos := 0
	for i := 0; i < len(f.nodes) && pos < to; i++ {
		child := f.nodes[i]
		end := pos + child.Size()
		if end > from && fn(child, nodeStart+pos, parent, i) && child.content.Size() > 0 {
			start := pos + 1
			child.content.nodesBetween(max(0, from-start), min(child.content.Size(), to-start), fn, nodeStart+start, child)
		}
		pos = end
	}
}

// String renders the children for debugging.
func (f Fragment) String() string {
	parts := make([]string, len(f.nodes))
	for i, n := range f.nodes {
		parts[i] = n.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
