package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
)

// InsertBlocks returns a command that inserts parsed blocks at the
// selection. When the outer blocks are textblocks and the cursor is in
// inline content, the first block continues the current textblock and
// the last one absorbs the rest of it. Otherwise the blocks go after the
// current block, or replace it when it is an empty top-level paragraph.
func InsertBlocks(nodes []*model.Node) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		if len(nodes) == 0 {
			return nil, false
		}
		if tr, ok := insertOpen(st, nodes); ok {
			return tr, true
		}
		return insertClosed(st, nodes)
	}
}

func insertOpen(st engine.State, nodes []*model.Node) (*transform.Transaction, bool) {
	if !nodes[0].IsTextblock() || !nodes[len(nodes)-1].IsTextblock() {
		return nil, false
	}
	tr := st.Tr()
	pos := deleteSelection(tr, st.Selection)
	if tr.Err() != nil {
		return nil, false
	}
	rp, err := tr.Doc().Resolve(pos)
	if err != nil || !rp.InInline() {
		return nil, false
	}
	slice := model.NewSlice(model.NewFragment(nodes...), 1, 1)
	tr.Replace(pos, pos, slice)
	end := pos + slice.Size()
	return done(tr.SetSelection(end, end))
}

func insertClosed(st engine.State, nodes []*model.Node) (*transform.Transaction, bool) {
	tr := st.Tr()
	pos := deleteSelection(tr, st.Selection)
	if tr.Err() != nil {
		return nil, false
	}
	rp, err := tr.Doc().Resolve(pos)
	if err != nil {
		return nil, false
	}

	at := pos
	switch {
	case !rp.InInline():
		tr.Insert(at, nodes...)
	case rp.Depth() == 1 && rp.Parent().Is(schema.KindParagraph) && rp.Parent().Content().Size() == 0:
		at = rp.Before(1)
		tr.ReplaceWith(at, rp.After(1), nodes...)
	default:
		at = rp.After(rp.Depth())
		tr.Insert(at, nodes...)
	}

	end := endOfLast(nodes[len(nodes)-1], at+model.NewFragment(nodes...).Size())
	return done(tr.SetSelection(end, end))
}

// endOfLast returns the end of the inline content of the last textblock
// in n, given the position after n. For a trailing atom it returns that
// position and leaves the selection fix to the engine.
func endOfLast(n *model.Node, after int) int {
	pos := after
	for !n.IsLeaf() {
		pos--
		if n.IsTextblock() {
			return pos
		}
		n = n.LastChild()
	}
	return after
}
