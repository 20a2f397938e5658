package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jearn/composer/internal/input/key"
)

func TestNewKeymap(t *testing.T) {
	km := NewKeymap("test")

	if km.Name != "test" {
		t.Errorf("Name = %q, want %q", km.Name, "test")
	}
	if len(km.Bindings) != 0 {
		t.Errorf("Bindings should be empty, got %d", len(km.Bindings))
	}
}

func TestKeymapBuilders(t *testing.T) {
	km := NewKeymap("test").
		WithPriority(10).
		WithSource("test-source").
		Add("Backspace", ActionBackspace).
		AddBinding(NewBinding("Enter", ActionEnter).WithDescription("Split").WithCategory("Editing"))

	if km.Priority != 10 {
		t.Errorf("Priority = %d, want %d", km.Priority, 10)
	}
	if km.Source != "test-source" {
		t.Errorf("Source = %q, want %q", km.Source, "test-source")
	}
	if len(km.Bindings) != 2 {
		t.Fatalf("len(Bindings) = %d, want %d", len(km.Bindings), 2)
	}
	if km.Bindings[1].Category != "Editing" {
		t.Errorf("Category = %q, want %q", km.Bindings[1].Category, "Editing")
	}
}

func TestKeymapValidate(t *testing.T) {
	tests := []struct {
		name    string
		keymap  *Keymap
		wantErr bool
	}{
		{
			name:    "default keymap",
			keymap:  Default(),
			wantErr: false,
		},
		{
			name:    "empty keys",
			keymap:  NewKeymap("k").Add("", ActionEnter),
			wantErr: true,
		},
		{
			name:    "empty action",
			keymap:  NewKeymap("k").Add("Enter", ""),
			wantErr: true,
		},
		{
			name:    "unknown modifier",
			keymap:  NewKeymap("k").Add("Hyper-x", ActionEnter),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.keymap.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeymapClone(t *testing.T) {
	km := Default()
	clone := km.Clone()
	clone.Bindings[0].Action = "changed"

	if km.Bindings[0].Action == "changed" {
		t.Error("Clone should not share bindings")
	}
}

func TestRegistryLookupDefaults(t *testing.T) {
	r := NewRegistry()
	if err := LoadDefaults(r); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}

	tests := []struct {
		ev   key.Event
		want string
	}{
		{key.NewSpecialEvent(key.KeyBackspace, key.ModNone), ActionBackspace},
		{key.NewSpecialEvent(key.KeyEnter, key.ModNone), ActionEnter},
		{key.NewRuneEvent('z', key.Primary), ActionUndo},
		{key.NewRuneEvent('Z', key.Primary|key.ModShift), ActionRedo},
		{key.NewRuneEvent('y', key.Primary), ActionRedo},
		{key.NewRuneEvent('2', key.Primary|key.ModAlt), ActionHeading(2)},
		{key.NewRuneEvent('\\', key.Primary|key.ModAlt), ActionClearFormat},
	}
	for _, tt := range tests {
		b := r.Lookup(tt.ev)
		if b == nil {
			t.Errorf("Lookup(%s) = nil, want %q", tt.ev, tt.want)
			continue
		}
		if b.Action != tt.want {
			t.Errorf("Lookup(%s) = %q, want %q", tt.ev, b.Action, tt.want)
		}
	}

	if b := r.Lookup(key.NewRuneEvent('a', key.ModNone)); b != nil {
		t.Errorf("plain typing should not be bound, got %q", b.Action)
	}
}

func TestRegistryPrecedence(t *testing.T) {
	r := NewRegistry()
	if err := LoadDefaults(r); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	if err := r.Register(FromMap("user", map[string]string{"Mod-y": ActionUndo})); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ev := key.NewRuneEvent('y', key.Primary)
	if b := r.Lookup(ev); b == nil || b.Action != ActionUndo {
		t.Errorf("later keymap should win, got %v", b)
	}

	low := NewKeymap("low").WithPriority(-1).Add("Mod-y", ActionEnter)
	if err := r.Register(low); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if b := r.Lookup(ev); b == nil || b.Action != ActionUndo {
		t.Errorf("lower priority keymap should lose, got %v", b)
	}

	r.Unregister("user")
	if b := r.Lookup(ev); b == nil || b.Action != ActionRedo {
		t.Errorf("expected default after unregister, got %v", b)
	}
}

func TestRegistryBindingsFor(t *testing.T) {
	r := NewRegistry()
	if err := LoadDefaults(r); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	if err := r.Register(FromMap("user", map[string]string{"Mod-y": ActionUndo})); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got := r.BindingsFor(ActionRedo)
	if len(got) != 1 || got[0].Keys != "Mod-Shift-z" {
		t.Errorf("BindingsFor(redo) = %v, want only Mod-Shift-z", got)
	}
	if names := len(r.Keymaps()); names != 2 {
		t.Errorf("len(Keymaps()) = %d, want 2", names)
	}
}

func TestHeadingLevel(t *testing.T) {
	if level, ok := HeadingLevel("heading.3"); !ok || level != 3 {
		t.Errorf("HeadingLevel(heading.3) = %d, %v", level, ok)
	}
	for _, action := range []string{"heading.x", "heading.2x", ActionEnter} {
		if _, ok := HeadingLevel(action); ok {
			t.Errorf("HeadingLevel(%q) should fail", action)
		}
	}
}

func TestLoaderLoadReader(t *testing.T) {
	src := `
name = "custom"
priority = 5

[[bindings]]
keys = "C-h"
action = "backspace"
description = "Delete backward"
`
	km, err := NewLoader().LoadReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if km.Name != "custom" || km.Priority != 5 {
		t.Errorf("unexpected keymap %+v", km)
	}
	if len(km.Bindings) != 1 || km.Bindings[0].Action != ActionBackspace {
		t.Errorf("unexpected bindings %+v", km.Bindings)
	}

	if _, err := NewLoader().LoadReader(strings.NewReader("[[bindings]]\nkeys = \"Nope-x\"\naction = \"enter\"\n")); err == nil {
		t.Error("expected an error for an invalid key")
	}
}

func TestLoaderLoadAndRegister(t *testing.T) {
	dir := t.TempDir()
	content := "[[bindings]]\nkeys = \"Mod-Alt-0\"\naction = \"format.clear\"\n"
	if err := os.WriteFile(filepath.Join(dir, "extra.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	l.AddSearchPath(dir)
	r := NewRegistry()
	if err := l.LoadAndRegister(r); err != nil {
		t.Fatalf("LoadAndRegister: %v", err)
	}

	if r.Get("extra.toml") == nil {
		t.Fatal("keymap should be named after its file")
	}
	if b := r.Lookup(key.NewRuneEvent('0', key.Primary|key.ModAlt)); b == nil || b.Action != ActionClearFormat {
		t.Errorf("unexpected binding %v", b)
	}
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(Default().Bindings)
	if len(groups) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(groups))
	}
	if groups[0].Name != "Editing" || len(groups[0].Bindings) != 3 {
		t.Errorf("unexpected first group %+v", groups[0])
	}
}
