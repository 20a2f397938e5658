package intercept

import (
	"regexp"
	"strings"

	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
	htmldoc "github.com/jearn/composer/internal/markup/html"
	"github.com/jearn/composer/internal/markup/markdown"
)

var lineBreaks = regexp.MustCompile(`(?:\r\n?|\n)+`)

// PlainPaste pastes plain text as one paragraph per line, blank lines
// included. Pastes carrying HTML or Markdown, and pastes over a selected
// code block, are left to the other interceptors.
func PlainPaste() engine.Interceptor {
	return engine.NewInterceptor("paste.plain", func(st engine.State, ev event.Event) (*transform.Transaction, bool) {
		paste, ok := ev.(event.Paste)
		if !ok || !paste.Plain() || paste.Text == "" {
			return nil, false
		}
		if n := st.SelectedNode(); n != nil && n.Is(schema.KindCodeBlock) {
			return nil, false
		}
		return commands.InsertParagraphs(PasteLines(paste.Text))(st)
	})
}

// PasteLines splits pasted text into lines. Carriage returns are dropped
// and whitespace-only lines become empty.
func PasteLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	return lines
}

// RichPaste inserts the structure of an HTML or Markdown paste. HTML is
// preferred when both are present.
func RichPaste() engine.Interceptor {
	return engine.NewInterceptor("paste.rich", func(st engine.State, ev event.Event) (*transform.Transaction, bool) {
		paste, ok := ev.(event.Paste)
		if !ok {
			return nil, false
		}
		var blocks []*model.Node
		switch {
		case paste.HTML != "":
			parsed, err := htmldoc.ParseFragment(paste.HTML)
			if err != nil {
				return nil, false
			}
			blocks = parsed
		case paste.Markdown != "":
			blocks = markdown.ParseBlocks(paste.Markdown)
		default:
			return nil, false
		}
		return commands.InsertBlocks(blocks)(st)
	})
}

// collapsedLines splits text on line breaks and drops blank lines.
func collapsedLines(text string) []string {
	var lines []string
	for _, line := range lineBreaks.Split(text, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
