package commands

import (
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
)

// SplitBlock splits the textblock at the cursor after deleting the
// selection. Splitting at the end of a block continues with a paragraph,
// so Enter at the end of a heading leaves the heading. In the first
// block of a list item the item itself is split. A selected code block
// gets an empty paragraph after it.
func SplitBlock(st engine.State) (*transform.Transaction, bool) {
	if n := st.SelectedNode(); n != nil && n.IsBlock() {
		at := st.Selection.To()
		return done(st.Tr().Insert(at, model.Paragraph()).SetSelection(at+1, at+1))
	}

	tr := st.Tr()
	pos := deleteSelection(tr, st.Selection)
	if tr.Err() != nil {
		return nil, false
	}
	rp, err := tr.Doc().Resolve(pos)
	if err != nil {
		return nil, false
	}
	if !rp.InInline() {
		return done(tr.Insert(pos, model.Paragraph()).SetSelection(pos+1, pos+1))
	}

	d := rp.Depth()
	block := rp.Parent()
	second := block.Copy(model.EmptyFragment)
	if rp.ParentOffset() == block.Content().Size() {
		second = model.Paragraph()
	}

	slice := model.NewSlice(model.NewFragment(block.Copy(model.EmptyFragment), second), 1, 1)
	if d >= 2 && rp.Node(d-1).Is(schema.KindListItem) && rp.Index(d-1) == 0 {
		item := rp.Node(d - 1).Copy(model.EmptyFragment)
		slice = model.NewSlice(model.NewFragment(
			item.Copy(model.NewFragment(block.Copy(model.EmptyFragment))),
			item.Copy(model.NewFragment(second)),
		), 2, 2)
	}
	tr.Replace(pos, pos, slice)
	next := pos + 2*slice.OpenStart
	tr.SetSelection(next, next)
	return done(tr)
}

// InsertText returns a command replacing the selection with text.
func InsertText(text string) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		if text == "" {
			return nil, false
		}
		if n := st.SelectedNode(); n != nil && n.IsBlock() {
			return InsertParagraphs([]string{text})(st)
		}
		return done(engine.InsertText(st, text))
	}
}

// InsertParagraphs returns a command that inserts one paragraph per line
// at the selection, empty lines included. The first line continues the
// current textblock and the cursor ends after the last line.
func InsertParagraphs(lines []string) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		if len(lines) == 0 {
			return nil, false
		}
		tr := st.Tr()
		pos := deleteSelection(tr, st.Selection)
		if tr.Err() != nil {
			return nil, false
		}
		rp, err := tr.Doc().Resolve(pos)
		if err != nil {
			return nil, false
		}

		paras := make([]*model.Node, len(lines))
		for i, line := range lines {
			paras[i] = paragraphOf(line)
		}
		if !rp.InInline() {
			tr.Insert(pos, paras...)
			end := pos + model.NewFragment(paras...).Size() - 1
			return done(tr.SetSelection(end, end))
		}
		if len(lines) == 1 {
			tr.InsertText(pos, lines[0])
			end := pos + len([]rune(lines[0]))
			return done(tr.SetSelection(end, end))
		}
		slice := model.NewSlice(model.NewFragment(paras...), 1, 1)
		tr.Replace(pos, pos, slice)
		end := pos + slice.Size()
		return done(tr.SetSelection(end, end))
	}
}

func paragraphOf(line string) *model.Node {
	if line == "" {
		return model.Paragraph()
	}
	return model.Paragraph(model.NewText(line))
}
