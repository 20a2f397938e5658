package commands

import (
	"testing"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
)

var (
	doc  = model.Doc
	p    = model.Paragraph
	txt  = model.Text
	h    = model.Heading
	ul   = model.BulletList
	li   = model.ListItem
	bq   = model.Blockquote
	code = model.CodeBlock
)

func state(d *model.Node, sel cursor.Selection) engine.State {
	return engine.State{Doc: d, Selection: sel}
}

// run applies cmd and returns the resulting document and selection.
func run(t *testing.T, cmd engine.Command, st engine.State) (*model.Node, cursor.Selection) {
	t.Helper()
	tr, ok := cmd(st)
	if !ok {
		t.Fatalf("command declined on %s", st.Doc)
	}
	if tr == nil {
		return st.Doc, st.Selection
	}
	if err := tr.Err(); err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
	sel := st.Selection.Map(tr.Mapping())
	if s, ok := tr.Selection(); ok {
		sel = cursor.FromStep(s)
	}
	return tr.Doc(), sel
}

func expectDoc(t *testing.T, got, want *model.Node) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("document mismatch\n got: %s\nwant: %s", got, want)
	}
}

func expectSel(t *testing.T, got, want cursor.Selection) {
	t.Helper()
	if got != want {
		t.Errorf("expected selection %s, got %s", want, got)
	}
}

func TestChain(t *testing.T) {
	decline := func(engine.State) (*transform.Transaction, bool) { return nil, false }
	calls := 0
	accept := func(engine.State) (*transform.Transaction, bool) {
		calls++
		return nil, true
	}
	st := state(doc(p()), cursor.Cursor(1))

	if _, ok := Chain(decline, accept, accept)(st); !ok {
		t.Fatal("chain should apply")
	}
	if calls != 1 {
		t.Errorf("chain should stop at the first applying command, ran %d", calls)
	}
	if _, ok := Chain(decline)(st); ok {
		t.Error("chain of declining commands should decline")
	}
}
