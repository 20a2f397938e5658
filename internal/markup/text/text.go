// Package text converts between documents and plain text.
package text

import (
	"strings"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
)

// Leaf returns the plain-text form of an inline or block leaf.
func Leaf(n *model.Node) string {
	switch n.Kind() {
	case schema.KindHardBreak:
		return "\n"
	case schema.KindMath:
		return "$" + n.Attr(schema.AttrLatex) + "$"
	case schema.KindTag:
		return "#" + n.Attr(schema.AttrValue)
	case schema.KindMention:
		return "@" + n.Attr(schema.AttrDisplayID)
	case schema.KindCodeBlock:
		lang := n.Attr(schema.AttrLanguage)
		if lang == "text" {
			lang = ""
		}
		return "```" + lang + "\n" + n.Attr(schema.AttrCode) + "\n```"
	default:
		return ""
	}
}

// Render returns the document text with one line per textblock.
func Render(doc *model.Node) string {
	return doc.TextBetween(0, doc.Content().Size(), "\n", Leaf)
}

// Lines splits rendered text into lines.
func Lines(doc *model.Node) []string {
	return strings.Split(Render(doc), "\n")
}

// Parse builds a document with one paragraph per line. Carriage returns
// are dropped.
func Parse(src string) *model.Node {
	lines := strings.Split(strings.ReplaceAll(src, "\r", ""), "\n")
	blocks := make([]*model.Node, len(lines))
	for i, line := range lines {
		if line == "" {
			blocks[i] = model.Paragraph()
			continue
		}
		blocks[i] = model.Paragraph(model.Text(line))
	}
	return model.Doc(blocks...)
}
