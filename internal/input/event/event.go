// Package event defines the host input events the editor consumes.
//
// The host owns the event stream; the editor only receives events
// through Editor.Handle.
package event

import (
	"fmt"

	"github.com/jearn/composer/internal/input/key"
)

// Type identifies the kind of event.
type Type uint8

const (
	// TypeKey is a key press.
	TypeKey Type = iota
	// TypeText is text inserted by typing or an input method.
	TypeText
	// TypePaste is a clipboard paste.
	TypePaste
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeKey:
		return "key"
	case TypeText:
		return "text"
	case TypePaste:
		return "paste"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// Event is a host input event.
type Event interface {
	Type() Type
	String() string
}

// KeyEvent is a key press.
type KeyEvent struct {
	key.Event
}

// Key wraps a key event.
func Key(e key.Event) KeyEvent {
	return KeyEvent{Event: e}
}

// Type implements Event.
func (KeyEvent) Type() Type { return TypeKey }

// String implements Event.
func (e KeyEvent) String() string { return "key " + e.Event.String() }

// TextInput is text about to be inserted at the selection.
type TextInput struct {
	Text string
}

// Type implements Event.
func (TextInput) Type() Type { return TypeText }

// String implements Event.
func (e TextInput) String() string { return fmt.Sprintf("text %q", e.Text) }

// Paste carries every representation the clipboard offered.
type Paste struct {
	Text     string
	HTML     string
	Markdown string
}

// Type implements Event.
func (Paste) Type() Type { return TypePaste }

// String implements Event.
func (e Paste) String() string {
	switch {
	case e.HTML != "":
		return fmt.Sprintf("paste html (%d bytes)", len(e.HTML))
	case e.Markdown != "":
		return fmt.Sprintf("paste markdown (%d bytes)", len(e.Markdown))
	default:
		return fmt.Sprintf("paste %q", e.Text)
	}
}

// Plain reports whether the paste carries only plain text.
func (e Paste) Plain() bool {
	return e.HTML == "" && e.Markdown == ""
}
