package cursor

import (
	"github.com/jearn/composer/internal/engine/model"
)

// Fix is content the maintainer needs the engine to add so the selection
// has somewhere valid to go. The only fix ever requested is an empty
// placeholder paragraph inserted at At; the cursor then sits at At+1.
type Fix struct {
	Placeholder bool
	At          int
}

// Maintainer keeps text selections inside inline content.
//
// The engine calls Normalize once per committed transaction with the
// transaction's resulting selection. Normalize never calls back into the
// engine; when it asks for a placeholder paragraph the engine applies it
// in the same commit without normalizing again.
type Maintainer struct{}

// NewMaintainer returns a maintainer.
func NewMaintainer() *Maintainer {
	return &Maintainer{}
}

// Normalize returns the corrected selection for doc and, when no inline
// position exists to move to, the placeholder fix to apply.
func (m *Maintainer) Normalize(doc *model.Node, sel Selection) (Selection, Fix) {
	size := doc.Content().Size()
	sel = sel.Clamp(size)

	if sel.Kind == KindNode {
		n := doc.NodeAt(sel.Anchor)
		if n != nil && n.IsAtom() && n.Type().Selectable {
			return NodeSelection(sel.Anchor), Fix{}
		}
		sel = Cursor(sel.Anchor)
	}

	blocks := textblocks(doc)
	anchor, anchorFix := m.normalizePos(doc, blocks, sel.Anchor)
	if sel.Empty() {
		if anchorFix.Placeholder {
			return Cursor(anchorFix.At + 1), anchorFix
		}
		return Cursor(anchor), Fix{}
	}
	head, headFix := m.normalizePos(doc, blocks, sel.Head)
	switch {
	case anchorFix.Placeholder:
		return Cursor(anchorFix.At + 1), anchorFix
	case headFix.Placeholder:
		return Cursor(headFix.At + 1), headFix
	}
	return TextSelection(anchor, head), Fix{}
}

// InInline reports whether pos lies in inline content.
func InInline(doc *model.Node, pos int) bool {
	r, err := doc.Resolve(pos)
	return err == nil && r.InInline()
}

// normalizePos moves a single endpoint into inline content.
func (m *Maintainer) normalizePos(doc *model.Node, blocks []span, pos int) (int, Fix) {
	r, err := doc.Resolve(pos)
	if err == nil && r.InInline() {
		return pos, Fix{}
	}

	// Step onto the trailing boundary of an adjacent atom.
	boundary := pos
	atomAdjacent := false
	if err == nil {
		if after := r.NodeAfter(); after != nil && after.IsAtom() {
			boundary = pos + after.Size()
			atomAdjacent = true
		} else if before := r.NodeBefore(); before != nil && before.IsAtom() {
			atomAdjacent = true
		}
	}

	if p, ok := nearestForward(blocks, boundary); ok {
		return p, Fix{}
	}
	if p, ok := nearestBackward(blocks, boundary); ok {
		return p, Fix{}
	}
	if !atomAdjacent {
		// No inline content and no atom to anchor on; place a paragraph at
		// the end of the document.
		boundary = doc.Content().Size()
	}
	return boundary, Fix{Placeholder: true, At: boundary}
}

// span is the content range of one textblock.
type span struct {
	start, end int
}

func textblocks(doc *model.Node) []span {
	var out []span
	doc.Descendants(func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if n.IsTextblock() {
			out = append(out, span{start: pos + 1, end: pos + 1 + n.Content().Size()})
			return false
		}
		return !n.IsLeaf()
	})
	return out
}

// nearestForward returns the start of the first textblock at or after pos.
func nearestForward(blocks []span, pos int) (int, bool) {
	for _, b := range blocks {
		if b.start >= pos {
			return b.start, true
		}
	}
	return 0, false
}

// nearestBackward returns the end of the last textblock before pos.
func nearestBackward(blocks []span, pos int) (int, bool) {
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].end <= pos {
			return blocks[i].end, true
		}
	}
	return 0, false
}
