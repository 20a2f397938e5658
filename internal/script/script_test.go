package script

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/input/event"
)

const sample = `
name: sample
doc:
  format: markdown
  content: "# Title"
max_chars: 50
steps:
  - type: "a\nb"
  - key: Mod-Alt-9
  - select: [1, 3]
  - select_node: 4
  - paste: "x"
  - paste_html: "<p>y</p>"
  - action: list.bullet
  - undo: true
    repeat: 2
  - redo: true
expect:
  text: "Title"
  selection: [2]
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "sample" || len(s.Steps) != 9 || s.MaxChars == nil || *s.MaxChars != 50 {
		t.Errorf("unexpected script %+v", s)
	}
	d, err := s.Doc.Document()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := model.Doc(model.Heading(1, model.Text("Title"))); !d.Equal(want) {
		t.Errorf("expected %s, got %s", want, d)
	}
	if s.Steps[7].Times() != 2 || s.Steps[0].Times() != 1 {
		t.Error("unexpected repeat counts")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"empty step", "steps:\n  - repeat: 2\n", ErrEmptyStep},
		{"two actions", "steps:\n  - type: a\n    key: Enter\n", ErrAmbiguousStep},
		{"bad selection", "steps:\n  - select: [1, 2, 3]\n", ErrBadSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			var stepErr *StepError
			if !errors.As(err, &stepErr) || stepErr.Index != 0 {
				t.Errorf("expected a StepError for step 0, got %v", err)
			}
		})
	}

	for _, src := range []string{"", "colour: red\n", "doc:\n  format: rtf\n", "steps:\n  - key: Bogus-x\n"} {
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Errorf("expected an error for %q", src)
		}
	}
}

func TestStepEvents(t *testing.T) {
	evs := Step{Type: "a\n"}.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if in, ok := evs[0].(event.TextInput); !ok || in.Text != "a" {
		t.Errorf("unexpected first event %v", evs[0])
	}
	if k, ok := evs[1].(event.KeyEvent); !ok || !k.IsEnter() {
		t.Errorf("a typed newline should press Enter, got %v", evs[1])
	}

	if p, ok := (Step{PasteMarkdown: "- a"}).Events()[0].(event.Paste); !ok || p.Markdown != "- a" {
		t.Error("unexpected markdown paste")
	}
	if got := (Step{Undo: true}).Events(); got != nil {
		t.Errorf("undo has no input events, got %v", got)
	}
}

func TestStepString(t *testing.T) {
	n := 3
	tests := map[string]Step{
		`type "ab" x2`:  {Type: "ab", Repeat: 2},
		"key Enter":     {Key: "Enter"},
		"select [1 2]":  {Select: []int{1, 2}},
		"select node 3": {SelectNode: &n},
		"redo":          {Redo: true},
	}
	for want, step := range tests {
		if got := step.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

type call struct {
	kind string
	arg  string
}

type recorder struct {
	calls   []call
	applies bool
	fail    error
}

func (r *recorder) Handle(ev event.Event) (bool, error) {
	r.calls = append(r.calls, call{"handle", ev.String()})
	return true, r.fail
}

func (r *recorder) SetSelection(sel cursor.Selection) error {
	r.calls = append(r.calls, call{"select", sel.String()})
	return nil
}

func (r *recorder) RunAction(name string) (bool, error) {
	r.calls = append(r.calls, call{"action", name})
	return r.applies, nil
}

func (r *recorder) Undo() error {
	r.calls = append(r.calls, call{"undo", ""})
	return nil
}

func (r *recorder) Redo() error {
	r.calls = append(r.calls, call{"redo", ""})
	return nil
}

func TestReplay(t *testing.T) {
	r := &recorder{applies: true}
	steps := []Step{
		{Type: "ab"},
		{Select: []int{2}},
		{Action: "list.bullet"},
		{Undo: true, Repeat: 2},
		{Redo: true},
	}

	if err := Replay(context.Background(), r, steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []call{
		{"handle", `text "a"`},
		{"handle", `text "b"`},
		{"select", cursor.Cursor(2).String()},
		{"action", "list.bullet"},
		{"undo", ""},
		{"undo", ""},
		{"redo", ""},
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("expected %v, got %v", want, r.calls)
	}
}

type groupingRecorder struct {
	recorder
}

func (r *groupingRecorder) Group(name string) func() {
	r.calls = append(r.calls, call{"group", name})
	return func() { r.calls = append(r.calls, call{"end", name}) }
}

func TestReplayGroupsEdits(t *testing.T) {
	r := &groupingRecorder{recorder{applies: true}}
	steps := []Step{
		{Type: "a", Repeat: 2},
		{Select: []int{1}},
		{Undo: true},
	}

	if err := Replay(context.Background(), r, steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := steps[0].String()
	want := []call{
		{"group", name},
		{"handle", `text "a"`},
		{"handle", `text "a"`},
		{"end", name},
		{"select", cursor.Cursor(1).String()},
		{"undo", ""},
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("expected %v, got %v", want, r.calls)
	}
}

func TestReplayStops(t *testing.T) {
	r := &recorder{}
	err := Replay(context.Background(), r, []Step{{Undo: true}, {Action: "quote.toggle"}, {Redo: true}})
	if !errors.Is(err, ErrUnhandled) {
		t.Fatalf("expected ErrUnhandled, got %v", err)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Index != 1 {
		t.Errorf("expected the failure on step 1, got %v", err)
	}
	if len(r.calls) != 2 {
		t.Errorf("replay should stop at the failing step, got %v", r.calls)
	}

	boom := errors.New("boom")
	r = &recorder{fail: boom}
	if err := Replay(context.Background(), r, []Step{{Type: "ab"}}); !errors.Is(err, boom) {
		t.Errorf("expected the target error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Replay(ctx, &recorder{}, []Step{{Undo: true}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExpectCheck(t *testing.T) {
	d := model.Doc(model.Paragraph(model.Text("hi")))
	sel := cursor.Cursor(3)

	e := &Expect{Text: "hi\n", HTML: "<p>hi</p>", JSON: `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]}`, Selection: []int{3}}
	got, err := e.Check(d, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no mismatches, got %+v", got)
	}

	e = &Expect{Text: "ho", Selection: []int{1, 3}}
	got, err = e.Check(d, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Field != "text" || got[0].Got != "hi" || got[1].Field != "selection" {
		t.Errorf("unexpected mismatches %+v", got)
	}

	if got, err := (*Expect)(nil).Check(d, sel); got != nil || err != nil {
		t.Errorf("a nil expectation checks nothing, got %v %v", got, err)
	}
}
