package script_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jearn/composer/internal/app"
	"github.com/jearn/composer/internal/logging"
	"github.com/jearn/composer/internal/script"
)

const session = `
name: two lines
steps:
  - type: "ab\nc"
  - key: Mod-Alt-1
  - type: "x"
    repeat: 2
expect:
  html: "<p>ab</p><h1>cxx</h1>"
  selection: [8]
`

func TestReplaySession(t *testing.T) {
	sc, err := script.Parse(strings.NewReader(session))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := sc.Doc.Document()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := app.New(nil, app.WithDoc(d), app.WithLogger(logging.Null))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if err := script.Replay(context.Background(), s, sc.Steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := sc.Expect.Check(s.Doc(), s.Selection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range got {
		t.Errorf("%s: expected %q, got %q", m.Field, m.Want, m.Got)
	}
}

func TestReplayUndoesOneStep(t *testing.T) {
	s, err := app.New(nil, app.WithLogger(logging.Null))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	steps := []script.Step{{Type: "ab"}, {Type: "cd"}, {Undo: true}}
	if err := script.Replay(context.Background(), s, steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.Doc().TextContent(); got != "ab" {
		t.Errorf("undo should revert only the last step, got %q", got)
	}
}
