package intercept

import (
	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/keymap"
)

// Chain returns the standard interceptors in order, extra ones (plugin
// interceptors) running first.
func Chain(reg *keymap.Registry, extra ...engine.Interceptor) []engine.Interceptor {
	chain := make([]engine.Interceptor, 0, len(extra)+4)
	chain = append(chain, extra...)
	return append(chain,
		TagTrigger(),
		PlainPaste(),
		RichPaste(),
		Keys(reg),
	)
}

// Default is the fallback for events every interceptor declined: plain
// pastes with blank lines collapsed and the basic editing keys.
func Default() engine.Interceptor {
	return engine.NewInterceptor("default", func(st engine.State, ev event.Event) (*transform.Transaction, bool) {
		switch ev := ev.(type) {
		case event.Paste:
			lines := collapsedLines(ev.Text)
			if len(lines) == 0 {
				return nil, false
			}
			return commands.InsertParagraphs(lines)(st)
		case event.KeyEvent:
			switch {
			case ev.IsBackspace():
				return commands.Chain(commands.DeleteSelection, commands.DeleteCharBackward)(st)
			case ev.IsDelete():
				return Delete(st)
			case ev.IsEnter():
				return commands.SplitBlock(st)
			}
		}
		return nil, false
	})
}
