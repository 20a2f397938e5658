package codefence

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
)

// MetaRestore carries the code block a transaction may delete.
const MetaRestore = "codefence.restore"

// intent is a code block that a transaction is expected to delete.
// fromNext is set when the cursor sat at the start of the paragraph
// after the block.
type intent struct {
	pos      int
	block    *model.Node
	fromNext bool
}

// Options installs reconstruction into an editor.
func Options() []engine.Option {
	return []engine.Option{
		engine.WithFilter("codefence", Filter),
		engine.WithAppender("codefence", Appender),
	}
}

// Filter records the code block a transaction is about to delete: the
// node-selected block, or the block right before a paragraph whose start
// holds the cursor. Hard deletes, history and appended transactions are
// left alone. Filter never rejects.
func Filter(st engine.State, tr *transform.Transaction) error {
	if tr.MetaBool(transform.MetaHardDelete) || tr.MetaBool(transform.MetaAppended) {
		return nil
	}
	switch tr.Meta(transform.MetaInputType) {
	case "undo", "redo":
		return nil
	}
	if in, ok := deleteIntent(st); ok {
		tr.SetMeta(MetaRestore, in)
	}
	return nil
}

func deleteIntent(st engine.State) (intent, bool) {
	if n := st.SelectedNode(); n != nil {
		if n.Is(schema.KindCodeBlock) {
			return intent{pos: st.Selection.From(), block: n}, true
		}
		return intent{}, false
	}
	pos, ok := st.Cursor()
	if !ok {
		return intent{}, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() || rp.ParentOffset() != 0 || rp.Depth() < 1 {
		return intent{}, false
	}
	d := rp.Depth()
	index := rp.Index(d - 1)
	if index == 0 {
		return intent{}, false
	}
	prev := rp.Node(d - 1).Child(index - 1)
	if !prev.Is(schema.KindCodeBlock) {
		return intent{}, false
	}
	return intent{pos: rp.Before(d) - prev.Size(), block: prev, fromNext: true}, true
}

// Appender reconstructs the fence paragraphs of a code block that the
// committed transaction deleted. The cursor goes to the end of the
// closing fence. An empty paragraph the cursor deleted back from is
// replaced by the fence paragraphs. Blocks without code leave nothing
// behind. Reconstruction is exempt from the character limit.
func Appender(tr *transform.Transaction, _, after engine.State) *transform.Transaction {
	in, ok := tr.Meta(MetaRestore).(intent)
	if !ok {
		return nil
	}
	m := tr.Mapping()
	if !m.MapResult(in.pos, 1).Deleted || !m.MapResult(in.pos+in.block.Size(), -1).Deleted {
		return nil
	}
	lines := FenceLines(in.block)
	if lines == nil {
		return nil
	}
	at, ok := blockPos(after.Doc, m.Map(in.pos, -1))
	if !ok {
		return nil
	}
	paras := make([]*model.Node, len(lines))
	size := 0
	for i, line := range lines {
		paras[i] = model.Paragraph()
		if line != "" {
			paras[i] = model.Paragraph(model.NewText(line))
		}
		size += paras[i].Size()
	}
	out := after.Tr()
	if next := emptyParagraphAt(after.Doc, at); in.fromNext && next != nil {
		out.ReplaceWith(at, at+next.Size(), paras...)
	} else {
		out.Insert(at, paras...)
	}
	out.SetMeta(transform.MetaRestoring, true)
	end := at + size - 1
	out.SetSelection(end, end)
	if out.Err() != nil {
		return nil
	}
	return out
}

// emptyParagraphAt returns the empty paragraph starting at pos, if any.
func emptyParagraphAt(doc *model.Node, pos int) *model.Node {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return nil
	}
	next := rp.NodeAfter()
	if next == nil || !next.Is(schema.KindParagraph) || next.Content().Size() != 0 {
		return nil
	}
	return next
}

// blockPos moves pos out of inline content to the nearest position
// between blocks after it.
func blockPos(doc *model.Node, pos int) (int, bool) {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return 0, false
	}
	if !rp.InInline() {
		return pos, true
	}
	if rp.ParentOffset() == 0 {
		return rp.Before(rp.Depth()), true
	}
	return rp.After(rp.Depth()), true
}
