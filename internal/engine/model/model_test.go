package model

import (
	"errors"
	"testing"

	"github.com/jearn/composer/internal/engine/schema"
)

func twoParagraphs() *Node {
	return Doc(Paragraph(Text("ab")), Paragraph(Text("cd")))
}

// Size Tests

func TestNodeSizes(t *testing.T) {
	doc := Doc(Paragraph(Text("ab"), Math("x")))

	if got := doc.Content().Size(); got != 5 {
		t.Errorf("expected content size 5, got %d", got)
	}
	if got := Math("x").Size(); got != 1 {
		t.Errorf("atom should occupy 1 position, got %d", got)
	}
	if got := CodeBlock("go", "a\nb\nc", "").Size(); got != 1 {
		t.Errorf("code block should occupy 1 position, got %d", got)
	}
	if got := Text("héllo").Size(); got != 5 {
		t.Errorf("text size counts runes, got %d", got)
	}
}

func TestFragmentMergesText(t *testing.T) {
	f := NewFragment(Text("a"), Text("b"), nil, Text(""), Math("x"), Text("c"))

	if f.ChildCount() != 3 {
		t.Fatalf("expected 3 children, got %d: %s", f.ChildCount(), f)
	}
	if f.Child(0).Text() != "ab" {
		t.Errorf("expected merged run 'ab', got %q", f.Child(0).Text())
	}
	if f.Size() != 4 {
		t.Errorf("expected size 4, got %d", f.Size())
	}
}

func TestFragmentFindIndex(t *testing.T) {
	f := NewFragment(Text("ab"), Math("x"), Text("c"))

	tests := []struct {
		pos, index, offset int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{2, 1, 2},
		{3, 2, 3},
		{4, 3, 4},
	}
	for _, tt := range tests {
		index, offset := f.FindIndex(tt.pos)
		if index != tt.index || offset != tt.offset {
			t.Errorf("FindIndex(%d) = (%d, %d), want (%d, %d)", tt.pos, index, offset, tt.index, tt.offset)
		}
	}
}

// Resolve Tests

func TestResolve(t *testing.T) {
	doc := Doc(Paragraph(Text("ab"), Math("x")))

	r, err := doc.Resolve(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if !r.Parent().Is(schema.KindParagraph) {
		t.Errorf("expected paragraph parent, got %s", r.Parent().Kind())
	}
	if r.ParentOffset() != 2 {
		t.Errorf("expected parent offset 2, got %d", r.ParentOffset())
	}
	if !r.NodeAfter().Is(schema.KindMath) {
		t.Errorf("expected math after, got %v", r.NodeAfter())
	}
	if r.NodeBefore().Text() != "ab" {
		t.Errorf("expected 'ab' before, got %v", r.NodeBefore())
	}
	if r.Start(1) != 1 || r.End(1) != 4 {
		t.Errorf("expected paragraph content [1, 4], got [%d, %d]", r.Start(1), r.End(1))
	}
	if r.Before(1) != 0 || r.After(1) != 5 {
		t.Errorf("expected paragraph span [0, 5], got [%d, %d]", r.Before(1), r.After(1))
	}
	if !r.InInline() {
		t.Error("position in paragraph should be inline")
	}
}

func TestResolveInsideText(t *testing.T) {
	r, err := twoParagraphs().Resolve(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TextOffset() != 1 {
		t.Errorf("expected text offset 1, got %d", r.TextOffset())
	}
	if r.NodeBefore().Text() != "a" || r.NodeAfter().Text() != "b" {
		t.Errorf("expected split a|b, got %v|%v", r.NodeBefore(), r.NodeAfter())
	}
}

func TestResolveOutOfRange(t *testing.T) {
	doc := twoParagraphs()
	for _, pos := range []int{-1, 9} {
		if _, err := doc.Resolve(pos); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%d): expected ErrOutOfRange, got %v", pos, err)
		}
	}
}

func TestNodeAt(t *testing.T) {
	doc := Doc(Paragraph(Text("ab"), Math("x")))
	if n := doc.NodeAt(3); !n.Is(schema.KindMath) {
		t.Errorf("expected math at 3, got %v", n)
	}
	if n := doc.NodeAt(0); !n.Is(schema.KindParagraph) {
		t.Errorf("expected paragraph at 0, got %v", n)
	}
}

// Text Tests

func TestTextBetween(t *testing.T) {
	doc := Doc(
		Paragraph(Text("ab"), HardBreak(), Text("c")),
		Paragraph(Text("de")),
	)
	leaf := func(n *Node) string {
		if n.Is(schema.KindHardBreak) {
			return "\n"
		}
		return ""
	}

	got := doc.TextBetween(0, doc.Content().Size(), "|", leaf)
	if got != "ab\nc|de" {
		t.Errorf("expected %q, got %q", "ab\nc|de", got)
	}
	if got := doc.TextContent(); got != "abcde" {
		t.Errorf("expected text content 'abcde', got %q", got)
	}
}

// Replace Tests

func TestReplaceDeleteAcrossBlocks(t *testing.T) {
	doc, err := twoParagraphs().Replace(2, 6, EmptySlice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Doc(Paragraph(Text("ad")))
	if !doc.Equal(want) {
		t.Errorf("expected %s, got %s", want, doc)
	}
}

func TestReplaceInsertAtom(t *testing.T) {
	doc, err := Doc(Paragraph(Text("ab"))).Replace(3, 3, ClosedSlice(Math("x")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Doc(Paragraph(Text("ab"), Math("x")))
	if !doc.Equal(want) {
		t.Errorf("expected %s, got %s", want, doc)
	}
}

func TestReplaceOpenSlice(t *testing.T) {
	slice := NewSlice(NewFragment(Paragraph(Text("x")), Paragraph(Text("y"))), 1, 1)
	doc, err := Doc(Paragraph(Text("ab"))).Replace(2, 2, slice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Doc(Paragraph(Text("ax")), Paragraph(Text("yb")))
	if !doc.Equal(want) {
		t.Errorf("expected %s, got %s", want, doc)
	}
}

func TestReplaceKeepsOriginal(t *testing.T) {
	orig := twoParagraphs()
	if _, err := orig.Replace(1, 3, EmptySlice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !orig.Equal(twoParagraphs()) {
		t.Error("replace must not modify the original document")
	}
}

func TestReplaceRejectsEmptyDoc(t *testing.T) {
	_, err := Doc(Paragraph(Text("ab"))).Replace(0, 4, EmptySlice)
	if !errors.Is(err, ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", err)
	}
}

func TestReplaceRejectsMismatchedDepth(t *testing.T) {
	doc := Doc(Paragraph(Text("ab")), BulletList(ListItem(Paragraph(Text("cd")))))
	_, err := doc.Replace(2, 7, EmptySlice)
	if !errors.Is(err, ErrOpenDepth) {
		t.Errorf("expected ErrOpenDepth, got %v", err)
	}
}

// Slice Tests

func TestNodeSlice(t *testing.T) {
	s, err := twoParagraphs().Slice(2, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.OpenStart != 1 || s.OpenEnd != 1 {
		t.Errorf("expected open 1/1, got %d/%d", s.OpenStart, s.OpenEnd)
	}
	want := NewFragment(Paragraph(Text("b")), Paragraph(Text("c")))
	if !s.Content.Equal(want) {
		t.Errorf("expected %s, got %s", want, s.Content)
	}
	if s.Size() != 4 {
		t.Errorf("expected slice size 4, got %d", s.Size())
	}
}

// Check Tests

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		doc  *Node
		ok   bool
	}{
		{"valid", Doc(Paragraph(Text("a")), CodeBlock("go", "x", "")), true},
		{"empty doc", Doc(), false},
		{"list item without paragraph", Doc(BulletList(ListItem(Blockquote(Paragraph())))), false},
		{"inline in doc", Doc(Math("x")), false},
		{"block in paragraph", Doc(Paragraph(Paragraph())), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Check()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidContent) {
				t.Errorf("expected ErrInvalidContent, got %v", err)
			}
		})
	}
}

func TestNewNodeAttrs(t *testing.T) {
	mathType := schema.Default().MustLookup(schema.KindMath)

	n, err := NewLeaf(mathType, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Attr(schema.AttrLatex) != "" {
		t.Errorf("expected default latex, got %q", n.Attr(schema.AttrLatex))
	}
	if _, err := NewLeaf(mathType, Attrs{"colour": "red"}); !errors.Is(err, ErrUnknownAttr) {
		t.Errorf("expected ErrUnknownAttr, got %v", err)
	}
	if CodeBlock("", "x", "").Attr(schema.AttrLanguage) != "text" {
		t.Error("empty code block language should default to text")
	}
}

func TestNodesBetween(t *testing.T) {
	doc := Doc(Paragraph(Text("ab"), Tag("go")), Paragraph(Text("cd")))
	var kinds []schema.Kind
	doc.NodesBetween(0, doc.Content().Size(), func(n *Node, pos int, parent *Node, index int) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	want := []schema.Kind{schema.KindParagraph, schema.KindText, schema.KindTag, schema.KindParagraph, schema.KindText}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("node %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestString(t *testing.T) {
	got := Doc(Paragraph(Text("a"), Math("x"))).String()
	want := `doc(paragraph("a", math{latex="x"}))`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
