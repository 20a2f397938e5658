package transform

import (
	"errors"
	"testing"

	"github.com/jearn/composer/internal/engine/model"
)

func abc() *model.Node {
	return model.Doc(model.Paragraph(model.Text("abc")))
}

// StepMap Tests

func TestStepMapInsert(t *testing.T) {
	m := NewStepMap(Range{Start: 2, OldSize: 0, NewSize: 1})

	tests := []struct {
		pos, assoc, want int
	}{
		{1, 1, 1},
		{2, -1, 2},
		{2, 1, 3},
		{3, 1, 4},
	}
	for _, tt := range tests {
		if got := m.Map(tt.pos, tt.assoc); got != tt.want {
			t.Errorf("Map(%d, %d) = %d, want %d", tt.pos, tt.assoc, got, tt.want)
		}
	}
}

func TestStepMapDelete(t *testing.T) {
	m := NewStepMap(Range{Start: 1, OldSize: 2, NewSize: 0})

	tests := []struct {
		pos, assoc int
		want       MapResult
	}{
		{1, -1, MapResult{Pos: 1}},
		{1, 1, MapResult{Pos: 1, Deleted: true}},
		{2, 1, MapResult{Pos: 1, Deleted: true}},
		{3, 1, MapResult{Pos: 1}},
		{3, -1, MapResult{Pos: 1, Deleted: true}},
		{4, 1, MapResult{Pos: 2}},
	}
	for _, tt := range tests {
		if got := m.MapResult(tt.pos, tt.assoc); got != tt.want {
			t.Errorf("MapResult(%d, %d) = %+v, want %+v", tt.pos, tt.assoc, got, tt.want)
		}
	}
}

func TestStepMapInvert(t *testing.T) {
	m := NewStepMap(Range{Start: 1, OldSize: 2, NewSize: 0}, Range{Start: 5, OldSize: 0, NewSize: 3})
	inv := m.Invert()

	for _, pos := range []int{0, 4, 6} {
		if got := inv.Map(m.Map(pos, 1), 1); got != pos {
			t.Errorf("round trip of %d gave %d", pos, got)
		}
	}
}

func TestMappingComposes(t *testing.T) {
	m := NewMapping(
		NewStepMap(Range{Start: 1, OldSize: 0, NewSize: 2}),
		NewStepMap(Range{Start: 5, OldSize: 1, NewSize: 0}),
	)
	if got := m.Map(4, 1); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if r := m.MapResult(3, 1); !r.Deleted {
		t.Errorf("position 3 should be deleted by the second map, got %+v", r)
	}
}

// Transaction Tests

func TestTransactionInsertAtom(t *testing.T) {
	tr := New(abc()).Insert(2, model.Math("x"))
	if err := tr.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := model.Doc(model.Paragraph(model.Text("a"), model.Math("x"), model.Text("bc")))
	if !tr.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, tr.Doc())
	}
	if got := tr.Mapping().Map(3, 1); got != 4 {
		t.Errorf("expected 3 to map to 4, got %d", got)
	}
	if !tr.DocChanged() {
		t.Error("expected DocChanged")
	}
}

func TestTransactionPoisoned(t *testing.T) {
	doc := abc()
	tr := New(doc).InsertText(1, "x").Delete(0, 6).InsertText(1, "y")

	if tr.Err() == nil {
		t.Fatal("expected error")
	}
	var stepErr *StepError
	if !errors.As(tr.Err(), &stepErr) || stepErr.Index != 1 {
		t.Errorf("expected StepError at index 1, got %v", tr.Err())
	}
	if len(tr.Steps()) != 1 {
		t.Errorf("expected only the first step applied, got %d", len(tr.Steps()))
	}
	if !doc.Equal(abc()) {
		t.Error("start document must not change")
	}
}

func TestTransactionRejectsEmptyDoc(t *testing.T) {
	tr := New(abc()).Delete(0, 5)
	if !errors.Is(tr.Err(), model.ErrInvalidContent) {
		t.Errorf("expected ErrInvalidContent, got %v", tr.Err())
	}
	if tr.Doc() != tr.Before() {
		t.Error("failed transaction must keep the start document")
	}
}

func TestApplyAllOrNothing(t *testing.T) {
	doc := abc()
	res, err := Apply(doc,
		NewReplaceStep(1, 1, model.ClosedSlice(model.Text("x"))),
		NewReplaceStep(0, 100, model.EmptySlice),
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Doc != doc {
		t.Error("expected original document on failure")
	}

	res, err = Apply(doc, NewReplaceStep(1, 1, model.ClosedSlice(model.Text("x"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Doc.TextContent() != "xabc" {
		t.Errorf("expected 'xabc', got %q", res.Doc.TextContent())
	}
}

func TestReplaceStepInvert(t *testing.T) {
	doc := abc()
	step := NewReplaceStep(1, 3, model.ClosedSlice(model.Tag("go")))

	after, err := step.Apply(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := step.Invert(doc).Apply(after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restored.Equal(doc) {
		t.Errorf("expected %s, got %s", doc, restored)
	}
}

func TestSelectionMappedThroughLaterSteps(t *testing.T) {
	tr := New(abc()).SetSelection(2, 2).InsertText(1, "zz")

	sel, ok := tr.Selection()
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Anchor != 4 || sel.Head != 4 {
		t.Errorf("expected cursor at 4, got %d/%d", sel.Anchor, sel.Head)
	}
	if tr.DocChanged() == false {
		t.Error("expected DocChanged")
	}
}

func TestSelectionStepOutOfRange(t *testing.T) {
	tr := New(abc()).SetSelection(0, 99)
	if !errors.Is(tr.Err(), ErrBadSelection) {
		t.Errorf("expected ErrBadSelection, got %v", tr.Err())
	}
}

func TestMeta(t *testing.T) {
	tr := New(abc()).SetMeta(MetaHardDelete, true)
	if !tr.MetaBool(MetaHardDelete) {
		t.Error("expected hard delete meta")
	}
	if tr.Meta("missing") != nil {
		t.Error("expected nil for unset meta")
	}
}
