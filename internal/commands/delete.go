package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/textutil"
)

// DeleteSelection deletes a node selection or a non-empty text range.
func DeleteSelection(st engine.State) (*transform.Transaction, bool) {
	if st.Selection.Empty() {
		return nil, false
	}
	tr := st.Tr()
	pos := deleteSelection(tr, st.Selection)
	tr.SetSelection(pos, pos)
	return done(tr)
}

// DeleteNode returns a command deleting the atomic node at pos as one
// unit.
func DeleteNode(pos int) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		n := st.Doc.NodeAt(pos)
		if n == nil || !n.IsAtom() {
			return nil, false
		}
		tr := st.Tr()
		at := removeNode(tr, pos)
		tr.SetSelection(at, at)
		return done(tr)
	}
}

// HardDelete deletes the atomic node at pos and marks the transaction so
// that no reconstruction runs afterwards.
func HardDelete(pos int) engine.Command {
	del := DeleteNode(pos)
	return func(st engine.State) (*transform.Transaction, bool) {
		tr, ok := del(st)
		if !ok {
			return nil, false
		}
		return tr.SetMeta(transform.MetaHardDelete, true), true
	}
}

// SelectNode returns a command that node-selects the selectable atom at
// pos.
func SelectNode(pos int) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		if err := cursor.NodeSelection(pos).Valid(st.Doc); err != nil {
			return nil, false
		}
		return done(st.Tr().SetNodeSelection(pos))
	}
}

// DeleteCharBackward deletes the grapheme cluster or inline node before a
// collapsed cursor. At the start of a textblock it joins backward.
func DeleteCharBackward(st engine.State) (*transform.Transaction, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return nil, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() {
		return nil, false
	}
	before := rp.NodeBefore()
	if before == nil {
		return JoinBackward(st)
	}
	n := 1
	if before.IsText() {
		n = textutil.LastGrapheme(before.Text())
	}
	tr := st.Tr().Delete(pos-n, pos)
	tr.SetSelection(pos-n, pos-n)
	return done(tr)
}

// DeleteCharForward deletes the grapheme cluster or inline node after a
// collapsed cursor. At the end of a textblock it joins forward.
func DeleteCharForward(st engine.State) (*transform.Transaction, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return nil, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() {
		return nil, false
	}
	after := rp.NodeAfter()
	if after == nil {
		return JoinForward(st)
	}
	n := 1
	if after.IsText() {
		n = textutil.FirstGrapheme(after.Text())
	}
	tr := st.Tr().Delete(pos, pos+n)
	tr.SetSelection(pos, pos)
	return done(tr)
}

// deleteSelection removes the selected content and returns the position
// where it was.
func deleteSelection(tr *transform.Transaction, sel cursor.Selection) int {
	switch {
	case sel.IsNode():
		return removeNode(tr, sel.From())
	case sel.Empty():
		return sel.Head
	default:
		deleteRange(tr, sel.From(), sel.To())
		return sel.From()
	}
}

// removeNode deletes the node at pos. A block whose removal would leave
// its parent empty takes the parent with it; an emptied document gets a
// fresh paragraph. It returns the position where content can continue.
func removeNode(tr *transform.Transaction, pos int) int {
	doc := tr.Doc()
	n := doc.NodeAt(pos)
	if n == nil {
		return pos
	}
	if n.IsInline() {
		tr.Delete(pos, pos+n.Size())
		return pos
	}
	rp, err := doc.Resolve(pos)
	if err != nil {
		return pos
	}
	from, to := pos, pos+n.Size()
	d := rp.Depth()
	for d > 0 && rp.Node(d).ChildCount() == 1 {
		from, to = rp.Before(d), rp.After(d)
		d--
	}
	if d == 0 && doc.ChildCount() == 1 {
		tr.ReplaceWith(0, doc.Content().Size(), model.Paragraph())
		return 1
	}
	tr.Delete(from, to)
	return from
}

// deleteRange deletes [from, to). When the endpoints sit in blocks that
// cannot be joined, the text around them and the blocks between are
// removed and the two blocks stay apart.
func deleteRange(tr *transform.Transaction, from, to int) {
	doc := tr.Doc()
	if _, err := doc.Replace(from, to, model.EmptySlice); err == nil {
		tr.Delete(from, to)
		return
	}
	rf, err := doc.Resolve(from)
	if err != nil {
		return
	}
	rt, err := doc.Resolve(to)
	if err != nil {
		return
	}
	shared := rf.SharedDepth(to)

	// Right side first so positions on the left stay valid.
	if rt.InInline() {
		tryDelete(tr, rt.Start(rt.Depth()), rt.Pos)
	}
	for d := rt.Depth() - 1; d > shared; d-- {
		tryDelete(tr, rt.Start(d), rt.Before(d+1))
	}
	if rf.Depth() > shared && rt.Depth() > shared {
		tryDelete(tr, rf.After(shared+1), rt.Before(shared+1))
	}
	for d := shared + 1; d < rf.Depth(); d++ {
		tryDelete(tr, rf.After(d+1), rf.End(d))
	}
	if rf.InInline() {
		tryDelete(tr, rf.Pos, rf.End(rf.Depth()))
	}
}

// tryDelete deletes [from, to) only when the result is a valid document.
func tryDelete(tr *transform.Transaction, from, to int) bool {
	if from >= to {
		return false
	}
	if _, err := tr.Doc().Replace(from, to, model.EmptySlice); err != nil {
		return false
	}
	tr.Delete(from, to)
	return true
}
