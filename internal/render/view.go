package render

import (
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
)

// View is the read-only form of a node handed to renderers.
type View struct {
	Kind  schema.Kind
	Attrs model.Attrs

	// Text is the content of a text run.
	Text string

	// Pos is the node's position in the document it was built from.
	Pos int

	Children []View

	node *model.Node
}

// Build returns the views of the document's blocks.
func Build(doc *model.Node) []View {
	return children(doc, 0)
}

func children(n *model.Node, start int) []View {
	if n.ChildCount() == 0 {
		return nil
	}
	views := make([]View, 0, n.ChildCount())
	pos := start
	for _, child := range n.Content().Nodes() {
		views = append(views, build(child, pos))
		pos += child.Size()
	}
	return views
}

func build(n *model.Node, pos int) View {
	return View{
		Kind:     n.Kind(),
		Attrs:    n.Attrs(),
		Text:     n.Text(),
		Pos:      pos,
		Children: children(n, pos+1),
		node:     n,
	}
}

// Attr returns a string attribute.
func (v View) Attr(name string) string {
	return v.Attrs.String(name)
}

// IsAtom reports whether the view is an atomic node.
func (v View) IsAtom() bool {
	return v.node != nil && v.node.IsAtom()
}
