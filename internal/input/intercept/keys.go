package intercept

import (
	"github.com/jearn/composer/internal/codefence"
	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/keymap"
)

// Backspace deletes backward: it leaves a list item or quote from an
// empty first paragraph, then deletes the selection, then one grapheme
// or atom before the cursor, then joins with the previous block.
var Backspace = commands.Chain(
	boundaryExit,
	commands.DeleteSelection,
	commands.DeleteCharBackward,
)

// Delete deletes forward.
var Delete = commands.Chain(
	commands.DeleteSelection,
	commands.DeleteCharForward,
)

// Enter promotes a closing code fence, leaves a list item or quote from
// an empty line, or splits the current block.
var Enter = commands.Chain(
	codefence.Promote,
	enterExit,
	commands.SplitBlock,
)

// Action returns the command bound to a keymap action. History actions
// are not commands and report false.
func Action(name string) (engine.Command, bool) {
	switch name {
	case keymap.ActionBackspace:
		return Backspace, true
	case keymap.ActionDelete:
		return Delete, true
	case keymap.ActionEnter:
		return Enter, true
	case keymap.ActionBulletList:
		return commands.ToggleBulletList, true
	case keymap.ActionBlockquote:
		return commands.ToggleBlockquote, true
	case keymap.ActionClearFormat:
		return commands.ClearFormatting, true
	}
	if level, ok := keymap.HeadingLevel(name); ok {
		return commands.ToggleHeading(level), true
	}
	return nil, false
}

// Keys resolves key events through reg and runs the bound command.
func Keys(reg *keymap.Registry) engine.Interceptor {
	return engine.NewInterceptor("keys", func(st engine.State, ev event.Event) (*transform.Transaction, bool) {
		kev, ok := ev.(event.KeyEvent)
		if !ok {
			return nil, false
		}
		b := reg.Lookup(kev.Event)
		if b == nil {
			return nil, false
		}
		cmd, ok := Action(b.Action)
		if !ok {
			return nil, false
		}
		return cmd(st)
	})
}

// emptyParagraph returns the depth of the empty paragraph holding the
// cursor.
func emptyParagraph(st engine.State) (int, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return 0, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() {
		return 0, false
	}
	block := rp.Parent()
	if !block.Is(schema.KindParagraph) || block.Content().Size() != 0 {
		return 0, false
	}
	return rp.Depth(), true
}

// boundaryExit handles Backspace in an empty paragraph that opens a list
// item or quote, or that directly follows a quote.
func boundaryExit(st engine.State) (*transform.Transaction, bool) {
	d, ok := emptyParagraph(st)
	if !ok {
		return nil, false
	}
	rp, _ := st.Resolve(st.Selection.Head)
	container := rp.Node(d - 1)
	index := rp.Index(d - 1)

	if index == 0 {
		switch container.Kind() {
		case schema.KindListItem:
			return commands.LiftListItem(st)
		case schema.KindBlockquote:
			return commands.LiftBlockquote(st)
		}
	}
	if index > 0 && container.Child(index-1).Is(schema.KindBlockquote) {
		return commands.JoinBackward(st)
	}
	return nil, false
}

// enterExit handles Enter on an empty list item or an empty last line of
// a quote.
func enterExit(st engine.State) (*transform.Transaction, bool) {
	d, ok := emptyParagraph(st)
	if !ok {
		return nil, false
	}
	rp, _ := st.Resolve(st.Selection.Head)
	container := rp.Node(d - 1)
	index := rp.Index(d - 1)

	switch {
	case container.Is(schema.KindListItem) && index == 0:
		return commands.LiftListItem(st)
	case container.Is(schema.KindBlockquote) && index == container.ChildCount()-1:
		return commands.LiftBlockquote(st)
	}
	return nil, false
}
