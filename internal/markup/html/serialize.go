package html

import (
	"fmt"
	"io"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
)

// Attribute names of the stored form.
const (
	attrType         = "data-type"
	attrLatex        = "data-latex"
	attrTag          = "data-tag"
	attrMention      = "data-mention"
	attrUID          = "data-uid"
	attrUniqueID     = "data-uniqueId"
	attrPrism        = "data-prism"
	attrLanguage     = "data-language"
	attrOriginalText = "data-original-text"

	typeMath = "math"
)

var headings = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// Serialize renders doc as HTML.
func Serialize(doc *model.Node) (string, error) {
	var b strings.Builder
	if err := Write(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders the blocks of doc to w.
func Write(w io.Writer, doc *model.Node) error {
	for i := 0; i < doc.ChildCount(); i++ {
		child := doc.Child(i)
		if err := nethtml.Render(w, element(child)); err != nil {
			return fmt.Errorf("render %s: %w", child.Kind(), err)
		}
	}
	return nil
}

func element(n *model.Node) *nethtml.Node {
	switch n.Kind() {
	case schema.KindText:
		return &nethtml.Node{Type: nethtml.TextNode, Data: n.Text()}
	case schema.KindParagraph:
		return withChildren(el(atom.P), n)
	case schema.KindHeading:
		level := min(max(n.AttrInt(schema.AttrLevel), 1), len(headings))
		return withChildren(el(headings[level-1]), n)
	case schema.KindBulletList:
		return withChildren(el(atom.Ul), n)
	case schema.KindListItem:
		return withChildren(el(atom.Li), n)
	case schema.KindBlockquote:
		return withChildren(el(atom.Blockquote), n)
	case schema.KindHardBreak:
		return el(atom.Br)
	case schema.KindMath:
		latex := n.Attr(schema.AttrLatex)
		return withText(el(atom.Span,
			attr(attrType, typeMath),
			attr("class", "math-node"),
			attr(attrLatex, latex),
		), latex)
	case schema.KindTag:
		value := n.Attr(schema.AttrValue)
		return withText(el(atom.A,
			attr(attrTag, value),
			attr("href", "/tags/"+value),
			attr("class", "hashtag-tag"),
		), "#"+value)
	case schema.KindMention:
		display := n.Attr(schema.AttrDisplayID)
		return withText(el(atom.Span,
			attr(attrMention, "true"),
			attr(attrUID, n.Attr(schema.AttrUID)),
			attr(attrUniqueID, display),
			attr("class", "mention"),
		), "@"+display)
	case schema.KindCodeBlock:
		return codeBlock(n)
	default:
		return withChildren(el(atom.Div, attr(attrType, string(n.Kind()))), n)
	}
}

func codeBlock(n *model.Node) *nethtml.Node {
	lang := n.Attr(schema.AttrLanguage)
	attrs := []nethtml.Attribute{
		attr(attrPrism, "true"),
		attr(attrLanguage, lang),
	}
	if orig := n.Attr(schema.AttrOriginalText); orig != "" {
		attrs = append(attrs, attr(attrOriginalText, orig))
	}
	attrs = append(attrs, attr("contenteditable", "false"))

	pre := el(atom.Pre, attrs...)
	pre.AppendChild(withText(el(atom.Code, attr("class", "language-"+lang)), n.Attr(schema.AttrCode)))
	return pre
}

func el(a atom.Atom, attrs ...nethtml.Attribute) *nethtml.Node {
	return &nethtml.Node{Type: nethtml.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) nethtml.Attribute {
	return nethtml.Attribute{Key: key, Val: val}
}

func withText(parent *nethtml.Node, s string) *nethtml.Node {
	if s != "" {
		parent.AppendChild(&nethtml.Node{Type: nethtml.TextNode, Data: s})
	}
	return parent
}

func withChildren(parent *nethtml.Node, n *model.Node) *nethtml.Node {
	for i := 0; i < n.ChildCount(); i++ {
		parent.AppendChild(element(n.Child(i)))
	}
	return parent
}

func headingLevel(a atom.Atom) int {
	for i, h := range headings {
		if h == a {
			return i + 1
		}
	}
	return 0
}
