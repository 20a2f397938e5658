package event

import (
	"testing"

	"github.com/jearn/composer/internal/input/key"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		ev   Event
		want Type
		str  string
	}{
		{Key(key.MustParse("Backspace")), TypeKey, "key Backspace"},
		{TextInput{Text: "a"}, TypeText, `text "a"`},
		{Paste{Text: "x"}, TypePaste, `paste "x"`},
		{Paste{HTML: "<p>x</p>"}, TypePaste, "paste html (8 bytes)"},
	}
	for _, tt := range tests {
		if tt.ev.Type() != tt.want {
			t.Errorf("%s: type %v, want %v", tt.str, tt.ev.Type(), tt.want)
		}
		if tt.ev.String() != tt.str {
			t.Errorf("String() = %q, want %q", tt.ev.String(), tt.str)
		}
	}
}

func TestPastePlain(t *testing.T) {
	if !(Paste{Text: "a"}).Plain() {
		t.Error("text-only paste is plain")
	}
	if (Paste{Text: "a", Markdown: "*a*"}).Plain() {
		t.Error("markdown paste is not plain")
	}
}
