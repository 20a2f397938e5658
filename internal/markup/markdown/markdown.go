// Package markdown converts Markdown to documents and renders documents
// back as Markdown.
package markdown

import (
	stdhtml "html"
	"strings"

	gm "github.com/yuin/goldmark"
	gmAst "github.com/yuin/goldmark/ast"
	gmText "github.com/yuin/goldmark/text"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	htmldoc "github.com/jearn/composer/internal/markup/html"
)

const maxHeadingLevel = 3

// Parse parses Markdown into a document. It never fails: constructs the
// schema cannot hold degrade to their text.
func Parse(src string) *model.Node {
	blocks := ParseBlocks(src)
	if len(blocks) == 0 {
		blocks = []*model.Node{model.Paragraph()}
	}
	return model.Doc(blocks...)
}

// ParseBlocks parses Markdown into a list of blocks.
func ParseBlocks(src string) []*model.Node {
	source := []byte(src)
	root := gm.DefaultParser().Parse(gmText.NewReader(source))
	p := &mdP{source: source}
	return p.acceptBlocks(root)
}

type mdP struct {
	source []byte
}

func (p *mdP) acceptBlocks(node gmAst.Node) []*model.Node {
	var result []*model.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		result = append(result, p.acceptBlock(child)...)
	}
	return result
}

func (p *mdP) acceptBlock(node gmAst.Node) []*model.Node {
	switch n := node.(type) {
	case *gmAst.Paragraph, *gmAst.TextBlock:
		if inlines := p.acceptInlines(n); len(inlines) > 0 {
			return []*model.Node{model.Paragraph(inlines...)}
		}
	case *gmAst.Heading:
		level := min(n.Level, maxHeadingLevel)
		return []*model.Node{model.Heading(level, p.acceptInlines(n)...)}
	case *gmAst.FencedCodeBlock:
		lang := "text"
		if l := n.Language(p.source); len(l) > 0 {
			lang = string(l)
		}
		return []*model.Node{codeBlock(lang, p.rawText(n))}
	case *gmAst.CodeBlock:
		return []*model.Node{codeBlock("text", p.rawText(n))}
	case *gmAst.Blockquote:
		return []*model.Node{model.Blockquote(nonEmpty(p.acceptBlocks(n))...)}
	case *gmAst.List:
		return p.acceptList(n)
	case *gmAst.HTMLBlock:
		raw := p.rawText(n)
		if n.HasClosure() {
			raw += "\n" + string(n.ClosureLine.Value(p.source))
		}
		blocks, err := htmldoc.ParseFragment(raw)
		if err != nil {
			return []*model.Node{model.Paragraph(model.Text(raw))}
		}
		return blocks
	}
	return nil
}

func (p *mdP) acceptList(node *gmAst.List) []*model.Node {
	var items []*model.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		blocks := nonEmpty(p.acceptBlocks(child))
		if !blocks[0].Is(schema.KindParagraph) {
			blocks = append([]*model.Node{model.Paragraph()}, blocks...)
		}
		items = append(items, model.ListItem(blocks...))
	}
	if len(items) == 0 {
		return nil
	}
	return []*model.Node{model.BulletList(items...)}
}

// acceptInlines flattens inline markup into text runs and hard breaks.
func (p *mdP) acceptInlines(node gmAst.Node) []*model.Node {
	var result []*model.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *gmAst.Text:
			s := string(n.Segment.Value(p.source))
			if !n.IsRaw() {
				s = cleanText(s)
			}
			result = append(result, model.Text(s))
			switch {
			case n.HardLineBreak():
				result = append(result, model.HardBreak())
			case n.SoftLineBreak() && n.NextSibling() != nil:
				result = append(result, model.Text(" "))
			}
		case *gmAst.String:
			result = append(result, model.Text(string(n.Value)))
		case *gmAst.CodeSpan:
			result = append(result, model.Text(string(n.Text(p.source))))
		case *gmAst.AutoLink:
			result = append(result, model.Text(string(n.URL(p.source))))
		case *gmAst.RawHTML:
		default:
			result = append(result, p.acceptInlines(n)...)
		}
	}
	return result
}

func (p *mdP) rawText(node gmAst.Node) string {
	lines := node.Lines()
	result := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		s := lines.At(i)
		line := string(s.Value(p.source))
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

func codeBlock(lang, code string) *model.Node {
	orig := ""
	if code != "" {
		orig = "```" + lang + "\n" + code + "\n```"
	}
	return model.CodeBlock(lang, code, orig)
}

func nonEmpty(blocks []*model.Node) []*model.Node {
	if len(blocks) == 0 {
		return []*model.Node{model.Paragraph()}
	}
	return blocks
}

// cleanText removes backslash escapes and expands entities.
func cleanText(s string) string {
	if !strings.ContainsAny(s, `\&`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return stdhtml.UnescapeString(b.String())
}

func isPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
