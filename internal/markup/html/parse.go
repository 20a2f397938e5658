package html

import (
	"fmt"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
)

// maxHeadingLevel is the deepest heading the editor offers; deeper
// headings are clamped to it.
const maxHeadingLevel = 3

var whitespace = regexp.MustCompile(`[ \t\r\n\f]+`)

// Parse parses an HTML document or fragment into a checked document.
func Parse(src string) (*model.Node, error) {
	blocks, err := ParseFragment(src)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		blocks = []*model.Node{model.Paragraph()}
	}
	doc := model.Doc(blocks...)
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMarkup, err)
	}
	return doc, nil
}

// ParseFragment parses HTML into a list of blocks. Unknown elements keep
// their text; formatting the schema cannot hold is dropped.
func ParseFragment(src string) ([]*model.Node, error) {
	body := &nethtml.Node{Type: nethtml.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := nethtml.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	b := newBuilder()
	for _, n := range nodes {
		b.node(n)
	}
	b.flush()
	return b.blocks, nil
}

// builder collects blocks while walking the HTML tree. Inline content is
// buffered until a block boundary flushes it into a paragraph.
type builder struct {
	blocks []*model.Node
	inline []*model.Node

	lineStart bool // nothing but breaks since the last flush
	endsSpace bool // the buffered text ends with a space
	softEnd   bool // that space came from source formatting
}

func newBuilder() *builder {
	return &builder{lineStart: true}
}

func (b *builder) node(n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		b.text(n.Data)
	case nethtml.ElementNode:
		b.element(n)
	case nethtml.DocumentNode:
		b.children(n)
	}
}

func (b *builder) children(n *nethtml.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.node(c)
	}
}

func (b *builder) element(n *nethtml.Node) {
	if a := inlineAtom(n); a != nil {
		b.addAtom(a)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template, atom.Noscript:
	case atom.P:
		b.flush()
		b.children(n)
		b.flushAs(model.Paragraph, true)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := min(headingLevel(n.DataAtom), maxHeadingLevel)
		b.flush()
		b.children(n)
		b.flushAs(func(c ...*model.Node) *model.Node { return model.Heading(level, c...) }, true)
	case atom.Ul, atom.Ol:
		b.flush()
		if list := listOf(n); list != nil {
			b.blocks = append(b.blocks, list)
		}
	case atom.Blockquote:
		b.flush()
		b.blocks = append(b.blocks, model.Blockquote(blocksOf(n)...))
	case atom.Pre:
		b.flush()
		b.blocks = append(b.blocks, codeBlockOf(n))
	case atom.Br:
		b.inline = append(b.inline, model.HardBreak())
		b.lineStart, b.endsSpace, b.softEnd = true, false, false
	case atom.Hr:
		b.flush()
	case atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Main, atom.Aside, atom.Nav, atom.Figure, atom.Figcaption,
		atom.Li, atom.Dl, atom.Dt, atom.Dd, atom.Table, atom.Tr,
		atom.Form, atom.Fieldset, atom.Details, atom.Summary, atom.Address:
		b.flush()
		b.children(n)
		b.flush()
	default:
		b.children(n)
	}
}

// text appends s with whitespace runs collapsed to one space. Runs that
// contain line breaks or tabs are source formatting and are dropped at
// line edges.
func (b *builder) text(s string) {
	var out strings.Builder
	last := 0
	soft := false
	for _, m := range whitespace.FindAllStringIndex(s, -1) {
		out.WriteString(s[last:m[0]])
		last = m[1]
		soft = strings.ContainsAny(s[m[0]:m[1]], "\t\r\n\f")
		if m[0] == 0 && soft && (b.lineStart || b.endsSpace) {
			continue
		}
		out.WriteByte(' ')
	}
	out.WriteString(s[last:])
	text := out.String()
	if text == "" {
		return
	}
	b.inline = append(b.inline, model.Text(text))
	b.lineStart = false
	b.endsSpace = strings.HasSuffix(text, " ")
	b.softEnd = b.endsSpace && soft && last == len(s)
}

func (b *builder) addAtom(n *model.Node) {
	b.inline = append(b.inline, n)
	b.lineStart, b.endsSpace, b.softEnd = false, false, false
}

func (b *builder) flush() {
	b.flushAs(model.Paragraph, false)
}

// flushAs turns the buffered inline content into a block. Blank content
// only produces a block when force is set.
func (b *builder) flushAs(mk func(...*model.Node) *model.Node, force bool) {
	inline := b.inline
	if b.softEnd && len(inline) > 0 {
		last := inline[len(inline)-1]
		inline[len(inline)-1] = model.Text(strings.TrimSuffix(last.Text(), " "))
	}
	b.inline = nil
	b.lineStart, b.endsSpace, b.softEnd = true, false, false

	if !force && blank(inline) {
		return
	}
	b.blocks = append(b.blocks, mk(inline...))
}

func blank(inline []*model.Node) bool {
	for _, n := range inline {
		if n == nil {
			continue
		}
		if !n.IsText() || strings.TrimSpace(n.Text()) != "" {
			return false
		}
	}
	return true
}

// blocksOf returns the blocks inside n, never empty.
func blocksOf(n *nethtml.Node) []*model.Node {
	b := newBuilder()
	b.children(n)
	b.flush()
	if len(b.blocks) == 0 {
		return []*model.Node{model.Paragraph()}
	}
	return b.blocks
}

// listOf converts ul/ol into a bullet list. Content outside li elements
// becomes an item of its own.
func listOf(n *nethtml.Node) *model.Node {
	var items []*model.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		var blocks []*model.Node
		switch {
		case c.Type == nethtml.ElementNode && c.DataAtom == atom.Li:
			blocks = blocksOf(c)
		case c.Type == nethtml.TextNode && strings.TrimSpace(c.Data) == "":
			continue
		default:
			b := newBuilder()
			b.node(c)
			b.flush()
			if len(b.blocks) == 0 {
				continue
			}
			blocks = b.blocks
		}
		if !blocks[0].Is(schema.KindParagraph) {
			blocks = append([]*model.Node{model.Paragraph()}, blocks...)
		}
		items = append(items, model.ListItem(blocks...))
	}
	if len(items) == 0 {
		return nil
	}
	return model.BulletList(items...)
}

// inlineAtom recognizes the stored forms of math, tags and mentions.
func inlineAtom(n *nethtml.Node) *model.Node {
	switch {
	case attrOf(n, attrType) == typeMath:
		latex, ok := lookupAttr(n, attrLatex)
		if !ok {
			latex = textOf(n)
		}
		return model.Math(latex)
	case hasAttr(n, attrTag):
		return model.Tag(attrOf(n, attrTag))
	case attrOf(n, attrMention) == "true" && hasAttr(n, attrUID):
		display, ok := lookupAttr(n, attrUniqueID)
		if !ok {
			display = strings.TrimPrefix(textOf(n), "@")
		}
		return model.Mention(attrOf(n, attrUID), display)
	}
	return nil
}

func codeBlockOf(pre *nethtml.Node) *model.Node {
	lang := attrOf(pre, attrLanguage)
	if lang == "" {
		if code := firstElement(pre, atom.Code); code != nil {
			for _, class := range strings.Fields(attrOf(code, "class")) {
				if l, ok := strings.CutPrefix(class, "language-"); ok {
					lang = l
					break
				}
			}
		}
	}
	if lang == "" {
		lang = "text"
	}

	code := strings.ReplaceAll(textOf(pre), "\r\n", "\n")
	code = strings.TrimSuffix(code, "\n")

	orig, ok := lookupAttr(pre, attrOriginalText)
	if !ok && code != "" {
		orig = "```" + lang + "\n" + code + "\n```"
	}
	return model.CodeBlock(lang, code, orig)
}

func firstElement(n *nethtml.Node, a atom.Atom) *nethtml.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.ElementNode && c.DataAtom == a {
			return c
		}
		if found := firstElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// textOf returns the concatenated text below n; br counts as a newline.
func textOf(n *nethtml.Node) string {
	var b strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch {
		case n.Type == nethtml.TextNode:
			b.WriteString(n.Data)
		case n.Type == nethtml.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// lookupAttr finds an attribute by name. The parser lowercases names,
// so the comparison ignores case.
func lookupAttr(n *nethtml.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func attrOf(n *nethtml.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasAttr(n *nethtml.Node, key string) bool {
	_, ok := lookupAttr(n, key)
	return ok
}
