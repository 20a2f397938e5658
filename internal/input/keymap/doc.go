// Package keymap maps key chords to named editor actions.
//
// A Keymap is a named list of bindings. The Registry holds every
// registered keymap and resolves a key event to the binding of the
// keymap with the highest priority; among equal priorities the keymap
// registered last wins, so user overrides registered after the defaults
// take precedence.
//
// Key specifications follow the key package: "Backspace", "Mod-z",
// "Mod-Shift-z", "Mod-Alt-1", "C-y". "Mod" is Cmd on macOS and Ctrl
// elsewhere.
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	_ = registry.Register(keymap.Default())
//	_ = registry.Register(keymap.FromMap("user", cfg.Keymap).WithPriority(10))
//
//	if b := registry.Lookup(ev); b != nil {
//	    // run b.Action
//	}
package keymap
