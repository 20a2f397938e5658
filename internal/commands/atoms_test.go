package commands

import (
	"testing"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
)

func TestInsertMath(t *testing.T) {
	st := state(doc(p(txt("ab"))), cursor.Cursor(2))

	got, sel := run(t, InsertMath("x\u200by"), st)

	expectDoc(t, got, doc(p(txt("a"), model.Math("xy"), txt("\u200bb"))))
	expectSel(t, sel, cursor.Cursor(4))
}

func TestInsertMathKeepsMalformedLatex(t *testing.T) {
	st := state(doc(p()), cursor.Cursor(1))

	got, _ := run(t, InsertMath(`\frac{1`), st)

	expectDoc(t, got, doc(p(model.Math(`\frac{1`), txt("\u200b"))))
}

func TestInsertTag(t *testing.T) {
	st := state(doc(p(txt("a "))), cursor.Cursor(3))

	got, sel := run(t, InsertTag("go-lang!"), st)

	expectDoc(t, got, doc(p(txt("a "), model.Tag("golang"), txt("\u200b"))))
	expectSel(t, sel, cursor.Cursor(5))
}

func TestInsertTagEmptyValueIsNoop(t *testing.T) {
	st := state(doc(p()), cursor.Cursor(1))
	tr, ok := InsertTag("éè!")(st)
	if !ok || tr != nil {
		t.Errorf("tag without valid characters should be a handled no-op, got %v %v", tr, ok)
	}
}

func TestSanitizeTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"golang", "golang"},
		{"go_lang_2", "go_lang_2"},
		{"héllo wörld", "hllowrld"},
		{"#tag", "tag"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeTag(tt.in); got != tt.want {
			t.Errorf("SanitizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInsertMentionReplacesSelection(t *testing.T) {
	st := state(doc(p(txt("hello"))), cursor.TextSelection(1, 6))

	got, sel := run(t, InsertMention("5f1e0c8a9b2d3e4f5a6b7c8d", "ada"), st)

	expectDoc(t, got, doc(p(model.Mention("5f1e0c8a9b2d3e4f5a6b7c8d", "ada"), txt(" "))))
	expectSel(t, sel, cursor.Cursor(3))
}

func TestInsertAtomOverSelectedCodeBlock(t *testing.T) {
	st := state(doc(p(txt("a")), code("go", "x", ""), p(txt("b"))), cursor.NodeSelection(3))

	got, sel := run(t, InsertMath("y"), st)

	expectDoc(t, got, doc(p(txt("a")), p(model.Math("y"), txt("\u200b")), p(txt("b"))))
	expectSel(t, sel, cursor.Cursor(6))
}
