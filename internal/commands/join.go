package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
)

// JoinBackward handles a collapsed cursor at the start of a textblock.
// The first block of a list item or quote is lifted out of it; otherwise
// the block is joined with what precedes it. A preceding code block is
// deleted. At the start of the document nothing happens.
func JoinBackward(st engine.State) (*transform.Transaction, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return nil, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() || rp.ParentOffset() != 0 {
		return nil, false
	}
	d := rp.Depth()
	index := rp.Index(d - 1)
	if index == 0 {
		switch rp.Node(d - 1).Kind() {
		case schema.KindListItem:
			return LiftListItem(st)
		case schema.KindBlockquote:
			return LiftBlockquote(st)
		}
		return noop()
	}

	cut := rp.Before(d)
	block := rp.Parent()
	prev := rp.Node(d - 1).Child(index - 1)
	tr := st.Tr()
	switch {
	case prev.IsAtom():
		tr.Delete(cut-prev.Size(), cut)
	case prev.IsTextblock():
		tr.Delete(cut-1, cut+1)
		tr.SetSelection(cut-1, cut-1)
	default:
		end, last := lastTextblock(prev, cut)
		if last == nil {
			// The container ends in a block atom.
			if atom := deepestLast(prev); atom != nil && atom.IsAtom() {
				removeNode(tr, end-atom.Size())
				return done(tr)
			}
			return noop()
		}
		tr.Delete(cut, cut+block.Size())
		if content := block.Content(); content.Size() > 0 {
			tr.Insert(end, content.Nodes()...)
		}
		tr.SetSelection(end, end)
	}
	return done(tr)
}

// JoinForward handles a collapsed cursor at the end of a textblock. The
// following textblock is pulled into the current one; a following block
// atom is node-selected so a second Delete removes it. At the end of the
// document nothing happens.
func JoinForward(st engine.State) (*transform.Transaction, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return nil, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() || rp.ParentOffset() != rp.Parent().Content().Size() {
		return nil, false
	}
	d := rp.Depth()
	for d > 0 && rp.IndexAfter(d-1) >= rp.Node(d-1).ChildCount() {
		d--
	}
	if d == 0 {
		return noop()
	}
	cut := rp.After(d)
	next := rp.Node(d - 1).Child(rp.IndexAfter(d - 1))
	if d == rp.Depth() && next.IsTextblock() {
		return done(st.Tr().Delete(cut-1, cut+1).SetSelection(pos, pos))
	}

	// Walk into the next block down to its first leaf block.
	chain := []*model.Node{next}
	for n := next; !n.IsTextblock() && !n.IsAtom(); {
		n = n.FirstChild()
		if n == nil {
			return noop()
		}
		chain = append(chain, n)
	}
	first := chain[len(chain)-1]
	start := cut + len(chain) - 1
	if first.IsAtom() {
		return done(st.Tr().SetNodeSelection(start))
	}

	// Remove the textblock, taking along ancestors it leaves empty.
	from, to := start, start+first.Size()
	for i := len(chain) - 2; i >= 0 && chain[i].ChildCount() == 1; i-- {
		from = cut + i
		to = from + chain[i].Size()
	}
	tr := st.Tr().Delete(from, to)
	if content := first.Content(); content.Size() > 0 {
		tr.Insert(pos, content.Nodes()...)
	}
	tr.SetSelection(pos, pos)
	return done(tr)
}

// lastTextblock finds the last textblock inside container, which ends at
// containerEnd. It returns the position of the end of that textblock's
// content, or the container's inner end and nil when the container ends
// in something else.
func lastTextblock(container *model.Node, containerEnd int) (int, *model.Node) {
	end := containerEnd
	n := container
	for {
		end--
		if n.IsTextblock() {
			return end, n
		}
		last := n.LastChild()
		if last == nil || last.IsAtom() {
			return end, nil
		}
		n = last
	}
}

func deepestLast(n *model.Node) *model.Node {
	for n != nil && !n.IsLeaf() && !n.IsTextblock() {
		n = n.LastChild()
	}
	return n
}
