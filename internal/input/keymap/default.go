package keymap

import "fmt"

// Action names understood by the editor.
const (
	ActionBackspace      = "backspace"
	ActionDelete         = "delete"
	ActionEnter          = "enter"
	ActionUndo           = "history.undo"
	ActionRedo           = "history.redo"
	ActionBulletList     = "list.bullet"
	ActionBlockquote     = "quote.toggle"
	ActionClearFormat    = "format.clear"
	actionHeadingPattern = "heading.%d"
)

// ActionHeading returns the action toggling a heading of level.
func ActionHeading(level int) string {
	return fmt.Sprintf(actionHeadingPattern, level)
}

// HeadingLevel returns the level of a heading action.
func HeadingLevel(action string) (int, bool) {
	var level int
	if _, err := fmt.Sscanf(action, actionHeadingPattern, &level); err != nil {
		return 0, false
	}
	return level, ActionHeading(level) == action
}

// LoadDefaults registers the default keymap.
func LoadDefaults(r *Registry) error {
	return r.Register(Default())
}

// Default returns the default bindings.
func Default() *Keymap {
	return &Keymap{
		Name:   "default",
		Source: "default",
		Bindings: []Binding{
			// Editing
			{Keys: "Backspace", Action: ActionBackspace, Description: "Delete backward", Category: "Editing"},
			{Keys: "Delete", Action: ActionDelete, Description: "Delete forward", Category: "Editing"},
			{Keys: "Enter", Action: ActionEnter, Description: "Split block", Category: "Editing"},

			// History
			{Keys: "Mod-z", Action: ActionUndo, Description: "Undo", Category: "History"},
			{Keys: "Mod-Shift-z", Action: ActionRedo, Description: "Redo", Category: "History"},
			{Keys: "Mod-y", Action: ActionRedo, Description: "Redo", Category: "History"},

			// Formatting
			{Keys: "Mod-Alt-1", Action: ActionHeading(1), Description: "Toggle heading 1", Category: "Formatting"},
			{Keys: "Mod-Alt-2", Action: ActionHeading(2), Description: "Toggle heading 2", Category: "Formatting"},
			{Keys: "Mod-Alt-3", Action: ActionHeading(3), Description: "Toggle heading 3", Category: "Formatting"},
			{Keys: "Mod-Alt-8", Action: ActionBulletList, Description: "Toggle bullet list", Category: "Formatting"},
			{Keys: "Mod-Alt-9", Action: ActionBlockquote, Description: "Toggle blockquote", Category: "Formatting"},
			{Keys: `Mod-Alt-\`, Action: ActionClearFormat, Description: "Clear formatting", Category: "Formatting"},
		},
	}
}
