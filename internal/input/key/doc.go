// Package key provides key event types and parsing for editor shortcuts.
//
//   - Key: identifies a keyboard key (special keys or runes)
//   - Modifier: modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single key press with modifiers and timestamp
//
// # Key Specifications
//
// Specifications use dash-separated modifiers followed by the key name:
//
//   - Simple keys: "a", "1", "Enter", "Backspace"
//   - With modifiers: "Ctrl-s", "Alt-Enter", "Mod-Shift-z", "Mod-Alt-\"
//   - Short forms: "C-z", "A-1", "S-Enter", "M-z"
//
// "Mod" is the platform's primary shortcut modifier: Meta (Cmd) on
// macOS and Ctrl elsewhere.
package key
