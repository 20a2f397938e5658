package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec     string
		wantKey  Key
		wantRune rune
		wantMod  Modifier
	}{
		{"a", KeyRune, 'a', ModNone},
		{"A", KeyRune, 'A', ModShift},
		{"1", KeyRune, '1', ModNone},
		{"Enter", KeyEnter, 0, ModNone},
		{"backspace", KeyBackspace, 0, ModNone},
		{"Delete", KeyDelete, 0, ModNone},
		{"Space", KeyRune, ' ', ModNone},
		{"C-z", KeyRune, 'z', ModCtrl},
		{"Ctrl-Shift-Z", KeyRune, 'z', ModCtrl | ModShift},
		{"Alt-Enter", KeyEnter, 0, ModAlt},
		{"Meta-Alt-1", KeyRune, '1', ModMeta | ModAlt},
		{"Ctrl-Alt-\\", KeyRune, '\\', ModCtrl | ModAlt},
		{"Ctrl--", KeyRune, '-', ModCtrl},
		{"-", KeyRune, '-', ModNone},
	}

	for _, tt := range tests {
		e, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if e.Key != tt.wantKey || e.Rune != tt.wantRune || e.Modifiers != tt.wantMod {
			t.Errorf("Parse(%q) = %#v, want key %v rune %q mods %q",
				tt.spec, e, tt.wantKey, tt.wantRune, tt.wantMod.String())
		}
	}
}

func TestParsePrimary(t *testing.T) {
	e, err := Parse("Mod-z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Modifiers != Primary {
		t.Errorf("Mod should resolve to %q, got %q", Primary.String(), e.Modifiers.String())
	}
	if primaryFor("darwin") != ModMeta || primaryFor("linux") != ModCtrl {
		t.Error("unexpected platform primary modifier")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("expected ErrEmptySpec, got %v", err)
	}
	for _, spec := range []string{"Hyper-a", "Ctrl-Nope", "Ctrl-"} {
		if _, err := Parse(spec); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Parse(%q): expected ErrInvalidSpec, got %v", spec, err)
		}
	}
}

func TestEventEquals(t *testing.T) {
	typed := NewRuneEvent('Z', ModCtrl|ModShift)
	if !typed.Matches("Ctrl-Shift-z") {
		t.Error("shifted chord should match the lower-case spec")
	}
	if NewRuneEvent('z', ModCtrl).Matches("Ctrl-Shift-z") {
		t.Error("missing shift must not match")
	}
	if !NewSpecialEvent(KeyBackspace, ModNone).IsBackspace() {
		t.Error("expected backspace")
	}
	if NewSpecialEvent(KeyEnter, ModShift).IsEnter() {
		t.Error("Shift-Enter is not a plain Enter")
	}
}

func TestEventIsChar(t *testing.T) {
	tests := []struct {
		event Event
		want  bool
	}{
		{NewRuneEvent('a', ModNone), true},
		{NewRuneEvent('A', ModShift), true},
		{NewRuneEvent(' ', ModNone), true},
		{NewRuneEvent('\n', ModNone), false},
		{NewRuneEvent('a', ModCtrl), false},
		{NewSpecialEvent(KeyEnter, ModNone), false},
	}
	for _, tt := range tests {
		if got := tt.event.IsChar(); got != tt.want {
			t.Errorf("%#v.IsChar() = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestNormalizeSpec(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"C-z", "Ctrl-z"},
		{"control-shift-Z", "Ctrl-Shift-z"},
		{"Alt-Meta-1", "Meta-Alt-1"},
		{"A", "A"},
		{"bs", "Backspace"},
		{"Space", "Space"},
	}
	for _, tt := range tests {
		got, err := NormalizeSpec(tt.spec)
		if err != nil {
			t.Errorf("NormalizeSpec(%q) error = %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeSpec(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}
