package model

import (
	"fmt"

	"github.com/jearn/composer/internal/engine/schema"
)

// NewNode creates a checked node of type t. Missing attributes take
// their defaults; unknown attributes and invalid children are errors.
func NewNode(t *schema.NodeType, attrs Attrs, children ...*Node) (*Node, error) {
	if t.IsText() {
		return nil, fmt.Errorf("%w: use NewText for text runs", ErrInvalidContent)
	}
	full, err := fillAttrs(t, attrs)
	if err != nil {
		return nil, err
	}
	content := NewFragment(children...)
	if !t.ValidContent(content.Kinds()) {
		return nil, fmt.Errorf("%w: %s cannot hold %v", ErrInvalidContent, t.Name, content.Kinds())
	}
	return &Node{typ: t, attrs: full, content: content}, nil
}

// NewLeaf creates a checked leaf of type t.
func NewLeaf(t *schema.NodeType, attrs Attrs) (*Node, error) {
	if !t.IsLeaf() {
		return nil, fmt.Errorf("%w: %s is not a leaf", ErrInvalidContent, t.Name)
	}
	return NewNode(t, attrs)
}

// NewText creates a text run. Empty text yields nil, which fragments
// ignore.
func NewText(s string) *Node {
	if s == "" {
		return nil
	}
	return newText(schema.Default().MustLookup(schema.KindText), s)
}

func fillAttrs(t *schema.NodeType, attrs Attrs) (Attrs, error) {
	for name := range attrs {
		if !t.HasAttr(name) {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnknownAttr, name, t.Name)
		}
	}
	defaults := t.DefaultAttrs()
	if defaults == nil {
		return nil, nil
	}
	full := Attrs(defaults)
	for k, v := range attrs {
		full[k] = v
	}
	return full, nil
}

// build creates a node of a default-schema kind without checking content.
func build(kind schema.Kind, attrs Attrs, children ...*Node) *Node {
	t := schema.Default().MustLookup(kind)
	full, err := fillAttrs(t, attrs)
	if err != nil {
		panic(fmt.Sprintf("model: %v", err))
	}
	return &Node{typ: t, attrs: full, content: NewFragment(children...)}
}

// Text is shorthand for NewText.
func Text(s string) *Node { return NewText(s) }

// Doc builds a document root.
func Doc(children ...*Node) *Node { return build(schema.KindDoc, nil, children...) }

// Paragraph builds a paragraph.
func Paragraph(children ...*Node) *Node { return build(schema.KindParagraph, nil, children...) }

// Heading builds a heading of the given level.
func Heading(level int, children ...*Node) *Node {
	return build(schema.KindHeading, Attrs{schema.AttrLevel: level}, children...)
}

// Blockquote builds a quote.
func Blockquote(children ...*Node) *Node { return build(schema.KindBlockquote, nil, children...) }

// BulletList builds a bullet list.
func BulletList(items ...*Node) *Node { return build(schema.KindBulletList, nil, items...) }

// ListItem builds a list item.
func ListItem(children ...*Node) *Node { return build(schema.KindListItem, nil, children...) }

// HardBreak builds a line break.
func HardBreak() *Node { return build(schema.KindHardBreak, nil) }

// Math builds a math atom.
func Math(latex string) *Node {
	return build(schema.KindMath, Attrs{schema.AttrLatex: latex})
}

// Tag builds a hashtag atom.
func Tag(value string) *Node {
	return build(schema.KindTag, Attrs{schema.AttrValue: value})
}

// Mention builds a mention atom.
func Mention(uid, displayID string) *Node {
	return build(schema.KindMention, Attrs{schema.AttrUID: uid, schema.AttrDisplayID: displayID})
}

// CodeBlock builds a code block atom. An empty language means "text".
func CodeBlock(language, code, originalText string) *Node {
	if language == "" {
		language = "text"
	}
	return build(schema.KindCodeBlock, Attrs{
		schema.AttrLanguage:     language,
		schema.AttrCode:         code,
		schema.AttrOriginalText: originalText,
	})
}

// Of builds a node of any default-schema kind from kind and attrs,
// checking attrs and content.
func Of(kind schema.Kind, attrs Attrs, children ...*Node) (*Node, error) {
	t, ok := schema.Default().Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema.ErrUnknownKind, kind)
	}
	return NewNode(t, attrs, children...)
}
