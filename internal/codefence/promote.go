package codefence

import (
	"strings"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/markup/text"
)

// Promote turns a fenced paragraph run into a code block. It applies
// when the cursor is at the end of a paragraph holding only a closing
// fence and an opening fence paragraph precedes it in the same
// container with nothing but paragraphs in between. The cursor ends up
// in the paragraph after the new block, which is created if needed.
func Promote(st engine.State) (*transform.Transaction, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return nil, false
	}
	rp, err := st.Resolve(pos)
	if err != nil {
		return nil, false
	}
	closing := rp.Parent()
	if !closing.Is(schema.KindParagraph) || rp.ParentOffset() != closing.Content().Size() {
		return nil, false
	}
	if !IsClosing(closing.TextContent()) {
		return nil, false
	}

	d := rp.Depth()
	container := rp.Node(d - 1)
	index := rp.Index(d - 1)
	from := rp.Before(d)
	var lines []string
	for i := index - 1; i >= 0; i-- {
		sibling := container.Child(i)
		if !sibling.Is(schema.KindParagraph) {
			return nil, false
		}
		raw := rawText(sibling)
		from -= sibling.Size()
		if lang, ok := ParseOpening(raw); ok {
			return promote(st, rp, from, lang, lines), true
		}
		lines = append([]string{raw}, lines...)
	}
	return nil, false
}

func promote(st engine.State, rp *model.ResolvedPos, from int, lang string, lines []string) *transform.Transaction {
	d := rp.Depth()
	to := rp.After(d)
	original := st.Doc.TextBetween(from, to, "\n", text.Leaf)
	block := model.CodeBlock(lang, strings.Join(lines, "\n"), original)

	tr := st.Tr().ReplaceWith(from, to, block)
	after := from + block.Size()
	if next := rp.Node(d - 1).Content().MaybeChild(rp.Index(d-1) + 1); next == nil || !next.IsTextblock() {
		tr.Insert(after, model.Paragraph())
	}
	tr.SetSelection(after+1, after+1)
	tr.SetMeta(transform.MetaInputType, "codefence")
	return tr
}
