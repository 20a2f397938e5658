package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification such as "Mod-Shift-z", "Backspace",
// "C-z" or "Mod-Alt-\" into an Event.
//
// Modifiers come first, separated by "-". The last segment is the key:
// a single character or a key name. A trailing "-" names the minus key.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "-")
	keyPart := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if keyPart == "" && len(parts) > 1 && parts[len(parts)-2] == "" {
		// "Ctrl--" or "-"
		keyPart = "-"
		mods = parts[:len(parts)-2]
	}

	var m Modifier
	for _, name := range mods {
		mod := ModifierFromName(strings.TrimSpace(name))
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, name, spec)
		}
		m = m.With(mod)
	}
	return parseKey(spec, keyPart, m)
}

func parseKey(spec, keyPart string, mods Modifier) (Event, error) {
	if keyPart == "" {
		return Event{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		if unicode.IsUpper(r) && mods == ModNone {
			mods = ModShift
		}
		return NewRuneEvent(r, mods).Normalize(), nil
	}
	if strings.EqualFold(keyPart, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidSpec, keyPart, spec)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

// NormalizeSpec parses and re-formats a key specification to its
// canonical form.
func NormalizeSpec(spec string) (string, error) {
	event, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return event.String(), nil
}
