package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/jearn/composer/internal/config"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/key"
	"github.com/jearn/composer/internal/input/keymap"
	"github.com/jearn/composer/internal/input/suggest"
	"github.com/jearn/composer/internal/logging"
	"github.com/jearn/composer/internal/render"
)

var (
	doc = model.Doc
	p   = model.Paragraph
	txt = model.Text
	h   = model.Heading
	bq  = model.Blockquote
)

func newSession(t *testing.T, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	s, err := New(cfg, append([]Option{WithLogger(logging.Null)}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func typeText(t *testing.T, s *Session, text string) {
	t.Helper()
	for _, r := range text {
		if _, err := s.Handle(event.TextInput{Text: string(r)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func press(t *testing.T, s *Session, r rune, mods key.Modifier) bool {
	t.Helper()
	handled, err := s.Handle(event.Key(key.NewRuneEvent(r, mods)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return handled
}

func expectDoc(t *testing.T, s *Session, want *model.Node) {
	t.Helper()
	if !s.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, s.Doc())
	}
}

func TestNewSession(t *testing.T) {
	s := newSession(t, nil)
	if s.ID() == uuid.Nil {
		t.Error("expected a session id")
	}
	expectDoc(t, s, doc(p()))
	if s.Config().Editor.MaxChars != 20000 {
		t.Errorf("expected default settings, got %+v", s.Config().Editor)
	}
}

func TestTypingAndHistory(t *testing.T) {
	s := newSession(t, nil)
	typeText(t, s, "hi")
	expectDoc(t, s, doc(p(txt("hi"))))

	if !press(t, s, 'z', key.Primary) {
		t.Error("undo should be handled")
	}
	expectDoc(t, s, doc(p()))

	if !press(t, s, 'y', key.Primary) {
		t.Error("redo should be handled")
	}
	expectDoc(t, s, doc(p(txt("hi"))))

	if err := s.Redo(); err != nil {
		t.Errorf("an empty redo stack is not an error, got %v", err)
	}
	if ok, err := s.RunAction(keymap.ActionRedo); ok || err != nil {
		t.Errorf("expected nothing to redo, got %v %v", ok, err)
	}
}

func TestCharLimitIsSilent(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.MaxChars = 3
	s := newSession(t, cfg)

	typeText(t, s, "abcd")

	expectDoc(t, s, doc(p(txt("abc"))))
}

func TestDisabledHeadingLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.HeadingLevels = []int{1}
	s := newSession(t, cfg, WithDoc(doc(p(txt("a")))))

	if press(t, s, '2', key.Primary|key.ModAlt) {
		t.Error("a disabled heading shortcut should not be handled")
	}
	expectDoc(t, s, doc(p(txt("a"))))

	if ok, err := s.RunAction(keymap.ActionHeading(2)); ok || err != nil {
		t.Errorf("expected the action to be refused, got %v %v", ok, err)
	}

	press(t, s, '1', key.Primary|key.ModAlt)
	expectDoc(t, s, doc(h(1, txt("a"))))
}

func TestRunAction(t *testing.T) {
	s := newSession(t, nil, WithDoc(doc(p(txt("a")))))

	ok, err := s.RunAction(keymap.ActionBlockquote)
	if !ok || err != nil {
		t.Fatalf("expected the quote toggle to apply, got %v %v", ok, err)
	}
	expectDoc(t, s, doc(bq(p(txt("a")))))

	if _, err := s.RunAction("nope"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestUserKeymapAndReconfigure(t *testing.T) {
	cfg := config.Default()
	cfg.Keymap = map[string]string{"Ctrl-q": keymap.ActionBlockquote}
	s := newSession(t, cfg, WithDoc(doc(p(txt("a")))))

	if !press(t, s, 'q', key.ModCtrl) {
		t.Fatal("user binding should be handled")
	}
	expectDoc(t, s, doc(bq(p(txt("a")))))

	if err := s.Reconfigure(config.Default()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if press(t, s, 'q', key.ModCtrl) {
		t.Error("binding should be gone after reconfiguring")
	}
}

func TestPlugins(t *testing.T) {
	dir := t.TempDir()
	script := `composer.on("text", function(ev)
	if ev.text == " " and ev.before:sub(-2) == "->" then
		return { delete_before = 2, insert = "→ " }
	end
end)`
	if err := os.WriteFile(filepath.Join(dir, "arrows.lua"), []byte(script), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := config.Default()
	cfg.Plugins.Dir = dir
	cfg.Plugins.Scripts = []string{"arrows.lua"}
	s := newSession(t, cfg)

	typeText(t, s, "a -> b")

	expectDoc(t, s, doc(p(txt("a → b"))))
}

func TestPluginLoadFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Plugins.Scripts = []string{filepath.Join(t.TempDir(), "missing.lua")}

	_, err := New(cfg, WithLogger(logging.Null))
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Target != "plugins" {
		t.Errorf("expected a plugin load error, got %v", err)
	}
}

func TestMentions(t *testing.T) {
	users := suggest.NewMemoryDirectory(suggest.DefaultMemoryOptions(),
		suggest.User{UID: "5f1e0c8a9b2d3e4f5a6b7c8d", UniqueID: "ada", Name: "Ada Lovelace"},
	)
	s := newSession(t, nil, WithDirectory(users), WithDoc(doc(p(txt("hi @ad")))))
	if err := s.SetSelection(cursor.Cursor(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, found, err := s.Suggest(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "ad" || len(found) != 1 {
		t.Fatalf("unexpected suggestion %+v %v", q, found)
	}
	if ok, err := s.ChooseMention(q, found[0]); !ok || err != nil {
		t.Fatalf("expected the mention to be inserted, got %v %v", ok, err)
	}
	expectDoc(t, s, doc(p(txt("hi "), model.Mention("5f1e0c8a9b2d3e4f5a6b7c8d", "ada"), txt(" "))))

	bare := newSession(t, nil)
	if _, _, err := bare.Suggest(context.Background(), 5); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("expected ErrNoDirectory, got %v", err)
	}
}

func TestSurface(t *testing.T) {
	s := newSession(t, nil, WithDoc(doc(p(txt("a"), model.Math("x")))))

	math := render.Build(s.Doc())[0].Children[1]
	if err := s.Surface().Handle(math).Select(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Selection() != cursor.NodeSelection(2) {
		t.Errorf("expected the math node selected, got %s", s.Selection())
	}
}

func TestClosed(t *testing.T) {
	s := newSession(t, nil)
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Handle(event.TextInput{Text: "a"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("closing twice should be harmless, got %v", err)
	}
}
