package markdown

import (
	"strings"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/markup/text"
)

// Render returns doc as Markdown. Atoms are written in their plain-text
// form, so the result does not parse back into atoms.
func Render(doc *model.Node) string {
	return strings.Join(childLines(doc), "\n") + "\n"
}

func childLines(n *model.Node) []string {
	var lines []string
	for i := 0; i < n.ChildCount(); i++ {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, blockLines(n.Child(i))...)
	}
	return lines
}

func blockLines(n *model.Node) []string {
	switch n.Kind() {
	case schema.KindHeading:
		line := strings.ReplaceAll(inlineText(n), "\\\n", " ")
		return []string{strings.Repeat("#", n.AttrInt(schema.AttrLevel)) + " " + line}
	case schema.KindCodeBlock:
		lang := n.Attr(schema.AttrLanguage)
		if lang == "text" {
			lang = ""
		}
		lines := []string{"```" + lang}
		if code := n.Attr(schema.AttrCode); code != "" {
			lines = append(lines, strings.Split(code, "\n")...)
		}
		return append(lines, "```")
	case schema.KindBlockquote:
		return prefixed(childLines(n), "> ", "> ")
	case schema.KindBulletList:
		var lines []string
		for i := 0; i < n.ChildCount(); i++ {
			lines = append(lines, prefixed(childLines(n.Child(i)), "- ", "  ")...)
		}
		return lines
	default:
		return strings.Split(inlineText(n), "\n")
	}
}

func inlineText(n *model.Node) string {
	return n.Content().TextBetween(0, n.Content().Size(), "", func(leaf *model.Node) string {
		if leaf.Is(schema.KindHardBreak) {
			return "\\\n"
		}
		return text.Leaf(leaf)
	})
}

func prefixed(lines []string, first, rest string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		prefix := rest
		if i == 0 {
			prefix = first
		}
		if line == "" {
			out[i] = strings.TrimRight(prefix, " ")
			continue
		}
		out[i] = prefix + line
	}
	return out
}
