package lua

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/key"
	"github.com/jearn/composer/internal/logging"
)

var (
	doc = model.Doc
	p   = model.Paragraph
	txt = model.Text
	bq  = model.Blockquote
)

type lineWriter chan string

func (w lineWriter) Write(b []byte) (int, error) {
	w <- string(b)
	return len(b), nil
}

func load(t *testing.T, src string) (*Script, lineWriter) {
	t.Helper()
	lines := make(lineWriter, 16)
	logger := logging.New(logging.Config{Level: logging.LogLevelInfo, Output: lines})
	s, err := LoadString("test", src, WithLogger(logger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, lines
}

func expectLog(t *testing.T, lines lineWriter, want string) {
	t.Helper()
	select {
	case line := <-lines:
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	default:
		t.Errorf("expected a log line containing %q", want)
	}
}

const expand = `
composer.on("text", function(ev)
	if ev.text == " " and ev.before:sub(-5) == ":wave" then
		return { delete_before = 5, insert = "hi " }
	end
end)
`

func TestScriptExpandsText(t *testing.T) {
	s, _ := load(t, expand)
	st := engine.State{Doc: doc(p(txt("say :wave"))), Selection: cursor.Cursor(10)}

	tr, ok := s.Intercept(st, event.TextInput{Text: " "})
	if !ok || tr == nil {
		t.Fatal("expected the expansion to apply")
	}
	if want := doc(p(txt("say hi "))); !tr.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, tr.Doc())
	}
	if sel, _ := tr.Selection(); sel.Head != 8 {
		t.Errorf("expected cursor 8, got %d", sel.Head)
	}

	if _, ok := s.Intercept(st, event.TextInput{Text: "x"}); ok {
		t.Error("other input should fall through")
	}
	if _, ok := s.Intercept(st, event.Paste{Text: "x"}); ok {
		t.Error("no paste handler is registered")
	}
}

func TestScriptWithinEditor(t *testing.T) {
	s, _ := load(t, expand)
	ed, err := engine.New(engine.WithDoc(doc(p(txt(":wave")))), engine.WithInterceptors(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ed.SetSelection(cursor.Cursor(6)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ed.Handle(event.TextInput{Text: " "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := doc(p(txt("hi "))); !ed.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, ed.Doc())
	}
}

func TestScriptRunsAction(t *testing.T) {
	s, _ := load(t, `
composer.on("key", function(ev)
	if ev.key == "Ctrl-q" then return { action = "quote.toggle" } end
end)
`)
	st := engine.State{Doc: doc(p(txt("a"))), Selection: cursor.Cursor(2)}

	tr, ok := s.Intercept(st, event.Key(key.NewRuneEvent('q', key.ModCtrl)))
	if !ok || tr == nil {
		t.Fatal("expected the action to run")
	}
	if want := doc(bq(p(txt("a")))); !tr.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, tr.Doc())
	}
}

func TestScriptSwallowsEvent(t *testing.T) {
	s, _ := load(t, `composer.on("text", function(ev) return ev.text == "!" end)`)
	st := engine.State{Doc: doc(p()), Selection: cursor.Cursor(1)}

	tr, ok := s.Intercept(st, event.TextInput{Text: "!"})
	if !ok || tr != nil {
		t.Errorf("expected a swallowed event, got %v %v", tr, ok)
	}
	if _, ok := s.Intercept(st, event.TextInput{Text: "?"}); ok {
		t.Error("false should decline")
	}
}

func TestScriptInsertsLines(t *testing.T) {
	s, _ := load(t, `composer.on("paste", function(ev) return ev.text:upper() end)`)
	st := engine.State{Doc: doc(p()), Selection: cursor.Cursor(1)}

	tr, ok := s.Intercept(st, event.Paste{Text: "a\nb"})
	if !ok || tr == nil {
		t.Fatal("expected the paste to be handled")
	}
	if want := doc(p(txt("A")), p(txt("B"))); !tr.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, tr.Doc())
	}
}

func TestScriptEventTable(t *testing.T) {
	s, _ := load(t, `
composer.on("paste", function(ev)
	seen = table.concat({ev.type, ev.before, ev.after, ev.block, tostring(ev.collapsed), ev.html}, "|")
end)
`)
	st := engine.State{Doc: doc(model.Heading(1, txt("ab"))), Selection: cursor.Cursor(2)}

	if _, ok := s.Intercept(st, event.Paste{Text: "x", HTML: "<b>x</b>"}); ok {
		t.Error("a handler returning nothing declines")
	}
	want := "paste|a|b|heading|true|<b>x</b>"
	if got := s.state.L.GetGlobal("seen").String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestScriptFailuresDecline(t *testing.T) {
	tests := []struct {
		name string
		src  string
		doc  *model.Node
		pos  int
		log  string
	}{
		{
			name: "runtime error",
			src:  `composer.on("text", function(ev) error("boom") end)`,
			doc:  doc(p(txt("a"))),
			pos:  2,
			log:  "text handler failed",
		},
		{
			name: "negative count",
			src:  `composer.on("text", function(ev) return { delete_before = -1 } end)`,
			doc:  doc(p(txt("a"))),
			pos:  2,
			log:  `bad field "delete_before"`,
		},
		{
			name: "crosses inline node",
			src:  `composer.on("text", function(ev) return { delete_before = 2 } end)`,
			doc:  doc(p(txt("a"), model.Math("x"), txt("b"))),
			pos:  4,
			log:  "crosses an inline node",
		},
		{
			name: "leaves block",
			src:  `composer.on("text", function(ev) return { delete_before = 3 } end)`,
			doc:  doc(p(txt("ab"))),
			pos:  3,
			log:  "leaves the block",
		},
		{
			name: "unknown action",
			src:  `composer.on("text", function(ev) return { action = "nope" } end)`,
			doc:  doc(p(txt("a"))),
			pos:  2,
			log:  `unknown action "nope"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, lines := load(t, tt.src)
			st := engine.State{Doc: tt.doc, Selection: cursor.Cursor(tt.pos)}
			if _, ok := s.Intercept(st, event.TextInput{Text: "x"}); ok {
				t.Error("expected the event to be declined")
			}
			expectLog(t, lines, tt.log)
		})
	}
}

func TestScriptPrintLogs(t *testing.T) {
	_, lines := load(t, `print("hello", 1)`)
	expectLog(t, lines, "hello 1")
}

func TestLoadStringRejectsUnknownType(t *testing.T) {
	if _, err := LoadString("bad", `composer.on("mouse", function() end)`); err == nil {
		t.Error("expected an error for an unknown event type")
	}
}

func TestHost(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "expand.lua")
	bad := filepath.Join(dir, "broken.lua")
	if err := os.WriteFile(good, []byte(expand), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(bad, []byte("this is not lua"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := Load([]string{good})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ics := h.Interceptors()
	if len(ics) != 1 || ics[0].Name() != "lua:expand" {
		t.Errorf("unexpected interceptors %v", ics)
	}
	if !h.Scripts()[0].Handles(event.TypeText) || h.Scripts()[0].Handles(event.TypeKey) {
		t.Error("unexpected handler registration")
	}
	if err := h.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := Load([]string{good, bad}); err == nil || !strings.Contains(err.Error(), "broken.lua") {
		t.Errorf("expected a load error naming the file, got %v", err)
	}
}
