package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
)

// Heading levels accepted by ToggleHeading.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 3
)

// ToggleHeading turns the textblocks in the selection into headings of
// level, or back into paragraphs when they all already are.
func ToggleHeading(level int) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		if level < MinHeadingLevel || level > MaxHeadingLevel {
			return nil, false
		}
		blocks := selectedTextblocks(st)
		if len(blocks) == 0 {
			return nil, false
		}
		all := true
		for _, b := range blocks {
			if !b.node.Is(schema.KindHeading) || b.node.AttrInt(schema.AttrLevel) != level {
				all = false
				break
			}
		}
		target := model.Heading(level)
		if all {
			target = model.Paragraph()
		}
		return done(setBlockType(st, blocks, target))
	}
}

// SetBlockType returns a command that converts the textblocks in the
// selection to the type and attributes of proto.
func SetBlockType(proto *model.Node) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		blocks := selectedTextblocks(st)
		if len(blocks) == 0 || !proto.IsTextblock() {
			return nil, false
		}
		return done(setBlockType(st, blocks, proto))
	}
}

// ToggleBulletList lifts the list item around the cursor out of its
// list, or wraps the selected paragraphs in a bullet list.
func ToggleBulletList(st engine.State) (*transform.Transaction, bool) {
	rp, err := st.Resolve(st.Selection.Head)
	if err != nil {
		return nil, false
	}
	if innermost(rp, schema.KindListItem) > 0 {
		return LiftListItem(st)
	}
	w := wrapTarget(st)
	if w == nil {
		return nil, false
	}
	items := make([]*model.Node, len(w.children))
	for i, child := range w.children {
		if !child.Is(schema.KindParagraph) {
			return nil, false
		}
		items[i] = model.ListItem(child)
	}
	tr := st.Tr().ReplaceWith(w.from, w.to, model.BulletList(items...))
	shift := func(index int) int { return 2 + 2*index }
	return done(tr.SetSelection(
		st.Selection.Anchor+shift(w.anchorIndex),
		st.Selection.Head+shift(w.headIndex),
	))
}

// ToggleBlockquote lifts the block around the cursor out of its quote,
// or wraps the selected blocks in a quote.
func ToggleBlockquote(st engine.State) (*transform.Transaction, bool) {
	rp, err := st.Resolve(st.Selection.Head)
	if err != nil {
		return nil, false
	}
	if innermost(rp, schema.KindBlockquote) > 0 {
		return LiftBlockquote(st)
	}
	w := wrapTarget(st)
	if w == nil {
		return nil, false
	}
	tr := st.Tr().ReplaceWith(w.from, w.to, model.Blockquote(w.children...))
	return done(tr.SetSelection(st.Selection.Anchor+1, st.Selection.Head+1))
}

// ClearFormatting turns headings in the selection into paragraphs and
// lifts the cursor's block out of its innermost list or quote.
func ClearFormatting(st engine.State) (*transform.Transaction, bool) {
	tr := st.Tr()
	var headings []textblock
	for _, b := range selectedTextblocks(st) {
		if b.node.Is(schema.KindHeading) {
			headings = append(headings, b)
		}
	}
	if len(headings) > 0 {
		tr = setBlockType(st, headings, model.Paragraph())
		if tr.Err() != nil {
			return nil, false
		}
	}
	if rp, err := tr.Doc().Resolve(st.Selection.Head); err == nil {
		if plan := planLift(rp); plan != nil {
			plan.apply(tr)
		}
	}
	if !tr.DocChanged() {
		return nil, false
	}
	return done(tr)
}

type textblock struct {
	node *model.Node
	pos  int
}

// selectedTextblocks lists the textblocks touched by the selection.
func selectedTextblocks(st engine.State) []textblock {
	from, to := st.Selection.From(), st.Selection.To()
	if st.Selection.IsNode() {
		return nil
	}
	var out []textblock
	st.Doc.NodesBetween(from, max(to, from+1), func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if n.IsTextblock() {
			out = append(out, textblock{node: n, pos: pos})
			return false
		}
		return !n.IsAtom()
	})
	return out
}

// setBlockType swaps each block for a node of proto's type with the same
// content. Sizes do not change, so the selection is restored as it was.
func setBlockType(st engine.State, blocks []textblock, proto *model.Node) *transform.Transaction {
	tr := st.Tr()
	for _, b := range blocks {
		if b.node.Kind() == proto.Kind() && b.node.Attrs().Equal(proto.Attrs()) {
			continue
		}
		tr.ReplaceWith(b.pos, b.pos+b.node.Size(), proto.Copy(b.node.Content()))
	}
	return tr.SetSelection(st.Selection.Anchor, st.Selection.Head)
}

type wrapRange struct {
	from, to               int
	children               []*model.Node
	anchorIndex, headIndex int
}

// wrapTarget finds the sibling blocks covered by the selection.
func wrapTarget(st engine.State) *wrapRange {
	if st.Selection.IsNode() {
		return nil
	}
	ra, err := st.Resolve(st.Selection.Anchor)
	if err != nil || !ra.InInline() {
		return nil
	}
	rh, err := st.Resolve(st.Selection.Head)
	if err != nil || !rh.InInline() {
		return nil
	}
	depth := ra.SharedDepth(rh.Pos)
	if depth == ra.Depth() {
		depth--
	}
	if ra.Depth() <= depth || rh.Depth() <= depth {
		return nil
	}
	first, last := ra.Index(depth), rh.Index(depth)
	lo, hi := ra, rh
	if first > last {
		first, last = last, first
		lo, hi = rh, ra
	}
	return &wrapRange{
		from:        lo.Before(depth + 1),
		to:          hi.After(depth + 1),
		children:    ra.Node(depth).Content().Nodes()[first : last+1],
		anchorIndex: ra.Index(depth) - first,
		headIndex:   rh.Index(depth) - first,
	}
}
