package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jearn/composer/internal/engine/schema"
)

// Node is an immutable document node.
type Node struct {
	typ     *schema.NodeType
	attrs   Attrs
	text    string
	runes   int
	content Fragment
}

// Type returns the node type.
func (n *Node) Type() *schema.NodeType {
	return n.typ
}

// Kind returns the node kind.
func (n *Node) Kind() schema.Kind {
	return n.typ.Name
}

// Attrs returns a copy of the node attributes.
func (n *Node) Attrs() Attrs {
	return n.attrs.Clone()
}

// Attr returns a single attribute as a string.
func (n *Node) Attr(name string) string {
	return n.attrs.String(name)
}

// AttrInt returns a single attribute as an int.
func (n *Node) AttrInt(name string) int {
	return n.attrs.Int(name)
}

// Text returns the content of a text run. Other nodes return "".
func (n *Node) Text() string {
	return n.text
}

// Content returns the children.
func (n *Node) Content() Fragment {
	return n.content
}

// Size returns the number of positions the node occupies.
func (n *Node) Size() int {
	switch {
	case n.typ.IsText():
		return n.runes
	case n.typ.IsLeaf():
		return n.typ.LeafSize()
	default:
		return n.content.Size() + 2
	}
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return n.content.ChildCount()
}

// Child returns the child at index i.
func (n *Node) Child(i int) *Node {
	return n.content.Child(i)
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	return n.content.FirstChild()
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	return n.content.LastChild()
}

// IsText reports whether the node is a text run.
func (n *Node) IsText() bool { return n.typ.IsText() }

// IsAtom reports whether the node is atomic.
func (n *Node) IsAtom() bool { return n.typ.IsAtom() }

// IsLeaf reports whether the node cannot have children.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// IsBlock reports whether the node is block-level.
func (n *Node) IsBlock() bool { return n.typ.IsBlock() }

// IsInline reports whether the node is inline.
func (n *Node) IsInline() bool { return n.typ.IsInline() }

// IsTextblock reports whether the node holds inline content.
func (n *Node) IsTextblock() bool { return n.typ.IsTextblock() }

// Is reports whether the node has the given kind.
func (n *Node) Is(kind schema.Kind) bool {
	return n != nil && n.typ.Name == kind
}

// TextContent concatenates all text runs below the node.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	return n.content.TextBetween(0, n.content.Size(), "", nil)
}

// TextBetween returns the text between two positions inside the node's
// content. blockSep is written between blocks; leafText, when non-nil,
// provides the text of inline leaves such as hard breaks and atoms.
func (n *Node) TextBetween(from, to int, blockSep string, leafText func(*Node) string) string {
	return n.content.TextBetween(from, to, blockSep, leafText)
}

// Copy returns a node of the same type and attributes with new content.
func (n *Node) Copy(content Fragment) *Node {
	return &Node{typ: n.typ, attrs: n.attrs, content: content}
}

// WithAttrs returns a copy of the node carrying attrs.
func (n *Node) WithAttrs(attrs Attrs) *Node {
	return &Node{typ: n.typ, attrs: attrs.Clone(), text: n.text, runes: n.runes, content: n.content}
}

// Cut returns the part of the node between two positions relative to the
// start of its content (for text runs: rune offsets into the text).
func (n *Node) Cut(from, to int) *Node {
	if n.IsText() {
		if from <= 0 && to >= n.runes {
			return n
		}
		return newText(n.typ, runeSlice(n.text, from, to))
	}
	if from <= 0 && to >= n.content.Size() {
		return n
	}
	return n.Copy(n.content.Cut(from, to))
}

// Slice returns the content between from and to as an open slice.
func (n *Node) Slice(from, to int) (Slice, error) {
	if from == to {
		return EmptySlice, nil
	}
	rf, err := n.Resolve(from)
	if err != nil {
		return EmptySlice, err
	}
	rt, err := n.Resolve(to)
	if err != nil {
		return EmptySlice, err
	}
	depth := rf.SharedDepth(to)
	start := rf.Start(depth)
	node := rf.Node(depth)
	content := node.content.Cut(rf.Pos-start, rt.Pos-start)
	return Slice{Content: content, OpenStart: rf.Depth() - depth, OpenEnd: rt.Depth() - depth}, nil
}

// NodeAt returns the node directly after pos, or nil.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.content.FindIndex(pos)
		if index >= node.ChildCount() {
			return nil
		}
		child := node.Child(index)
		if offset == pos || child.IsText() {
			return child
		}
		pos -= offset + 1
		node = child
	}
}

// NodesBetween calls fn for every node overlapping [from, to) in the
// node's content. Returning false from fn skips the node's children.
func (n *Node) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.content.nodesBetween(from, to, fn, 0, n)
}

// Descendants calls fn for every node below n.
func (n *Node) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.NodesBetween(0, n.content.Size(), fn)
}

// Equal reports structural equality.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.typ == other.typ &&
		n.text == other.text &&
		n.attrs.Equal(other.attrs) &&
		n.content.Equal(other.content)
}

// Check validates the node and all descendants against the schema.
func (n *Node) Check() error {
	if n.IsLeaf() {
		return nil
	}
	if !n.typ.ValidContent(n.content.Kinds()) {
		return fmt.Errorf("%w: %s cannot hold %v", ErrInvalidContent, n.typ.Name, n.content.Kinds())
	}
	for _, child := range n.content.nodes {
		if err := child.Check(); err != nil {
			return err
		}
	}
	return nil
}

// String returns a compact debugging representation such as
// doc(paragraph("ab", math{latex="x"})).
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsText() {
		return fmt.Sprintf("%q", n.text)
	}
	var b strings.Builder
	b.WriteString(string(n.typ.Name))
	b.WriteString(n.attrs.format())
	if !n.IsLeaf() {
		b.WriteByte('(')
		for i, child := range n.content.nodes {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(child.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

func newText(typ *schema.NodeType, s string) *Node {
	return &Node{typ: typ, text: s, runes: utf8.RuneCountInString(s)}
}

// runeSlice returns s[from:to] measured in runes.
func runeSlice(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	start, end := -1, len(s)
	i := 0
	for byteIdx := range s {
		if i == from {
			start = byteIdx
		}
		if i == to {
			end = byteIdx
			break
		}
		i++
	}
	if start < 0 {
		return ""
	}
	if end < start {
		return ""
	}
	return s[start:end]
}
