package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Kind identifies a node variant.
type Kind string

// Node kinds of the editor.
const (
	KindDoc        Kind = "doc"
	KindParagraph  Kind = "paragraph"
	KindHeading    Kind = "heading"
	KindBulletList Kind = "bullet_list"
	KindListItem   Kind = "list_item"
	KindBlockquote Kind = "blockquote"
	KindCodeBlock  Kind = "code_block"
	KindText       Kind = "text"
	KindHardBreak  Kind = "hard_break"
	KindMath       Kind = "math"
	KindTag        Kind = "tag"
	KindMention    Kind = "mention"
)

// Attribute names.
const (
	AttrLatex        = "latex"
	AttrValue        = "value"
	AttrUID          = "uid"
	AttrDisplayID    = "displayId"
	AttrLanguage     = "language"
	AttrCode         = "code"
	AttrOriginalText = "originalText"
	AttrLevel        = "level"
)

// Group is the placement class of a node.
type Group uint8

const (
	// GroupNone is used by the document root and by list items, which
	// only appear inside their dedicated parent.
	GroupNone Group = iota
	// GroupBlock nodes stack vertically.
	GroupBlock
	// GroupInline nodes flow inside textblocks.
	GroupInline
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupBlock:
		return "block"
	case GroupInline:
		return "inline"
	default:
		return "none"
	}
}

// Registry errors.
var (
	ErrDuplicateKind  = errors.New("duplicate node kind")
	ErrUnknownKind    = errors.New("unknown node kind")
	ErrMissingRoot    = errors.New("schema needs doc and text kinds")
	ErrInvalidContent = errors.New("invalid content expression")
)

// AttrSpec declares an attribute and its default value.
type AttrSpec struct {
	Name    string
	Default any
}

// ContentSpec describes which children a node accepts.
// A nil ContentSpec makes the node a leaf.
type ContentSpec struct {
	// Groups lists the accepted child groups.
	Groups []Group
	// Kinds lists accepted child kinds in addition to Groups.
	Kinds []Kind
	// First, when set, is the kind the first child must have.
	First Kind
	// Min is the minimum number of children.
	Min int
}

// Spec is the declarative form of a node type.
type Spec struct {
	Kind       Kind
	Group      Group
	Atom       bool
	Selectable bool
	Text       bool
	Content    *ContentSpec
	Attrs      []AttrSpec
}

// NodeType is the registered, read-only description of a node kind.
type NodeType struct {
	Name       Kind
	Group      Group
	Atom       bool
	Selectable bool
	Content    *ContentSpec
	Attrs      []AttrSpec

	isText bool
	reg    *Registry
}

// IsBlock reports whether nodes of this type are block-level.
func (t *NodeType) IsBlock() bool {
	return t.Group != GroupInline
}

// IsInline reports whether nodes of this type flow inside textblocks.
func (t *NodeType) IsInline() bool {
	return t.Group == GroupInline
}

// IsText reports whether this is the text run type.
func (t *NodeType) IsText() bool {
	return t.isText
}

// IsLeaf reports whether the type has no children.
func (t *NodeType) IsLeaf() bool {
	return t.Content == nil
}

// IsAtom reports whether the node is atomic: a leaf that is not a text run
// and is declared indivisible.
func (t *NodeType) IsAtom() bool {
	return t.Atom
}

// IsTextblock reports whether the type holds inline content.
func (t *NodeType) IsTextblock() bool {
	if t.Content == nil || t.Group == GroupInline {
		return false
	}
	for _, g := range t.Content.Groups {
		if g == GroupInline {
			return true
		}
	}
	return false
}

// LeafSize is the number of positions a leaf of this type occupies.
// Non-leaf and text types return 0; their size depends on content.
func (t *NodeType) LeafSize() int {
	if t.Content != nil || t.isText {
		return 0
	}
	return 1
}

// Accepts reports whether a child of type child may appear in this node.
func (t *NodeType) Accepts(child *NodeType) bool {
	if t.Content == nil || child == nil {
		return false
	}
	for _, k := range t.Content.Kinds {
		if k == child.Name {
			return true
		}
	}
	if child.Group == GroupNone {
		return false
	}
	for _, g := range t.Content.Groups {
		if g == child.Group {
			return true
		}
	}
	return false
}

// ValidContent reports whether kinds is an acceptable child sequence.
func (t *NodeType) ValidContent(kinds []Kind) bool {
	if t.Content == nil {
		return len(kinds) == 0
	}
	if len(kinds) < t.Content.Min {
		return false
	}
	if t.Content.First != "" && len(kinds) > 0 && kinds[0] != t.Content.First {
		return false
	}
	for _, k := range kinds {
		child, ok := t.reg.Lookup(k)
		if !ok || !t.Accepts(child) {
			return false
		}
	}
	return true
}

// DefaultAttrs returns a fresh map holding every attribute default.
func (t *NodeType) DefaultAttrs() map[string]any {
	if len(t.Attrs) == 0 {
		return nil
	}
	attrs := make(map[string]any, len(t.Attrs))
	for _, a := range t.Attrs {
		attrs[a.Name] = a.Default
	}
	return attrs
}

// HasAttr reports whether the type declares the named attribute.
func (t *NodeType) HasAttr(name string) bool {
	for _, a := range t.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Registry holds the node types of a schema. It is immutable once built.
type Registry struct {
	types map[Kind]*NodeType
}

// NewRegistry builds a registry from specs.
func NewRegistry(specs ...Spec) (*Registry, error) {
	reg := &Registry{types: make(map[Kind]*NodeType, len(specs))}
	groups := make(map[Group]bool)

	for _, s := range specs {
		if _, dup := reg.types[s.Kind]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, s.Kind)
		}
		reg.types[s.Kind] = &NodeType{
			Name:       s.Kind,
			Group:      s.Group,
			Atom:       s.Atom,
			Selectable: s.Selectable,
			Content:    s.Content,
			Attrs:      s.Attrs,
			isText:     s.Text,
			reg:        reg,
		}
		groups[s.Group] = true
	}

	if _, ok := reg.types[KindDoc]; !ok {
		return nil, ErrMissingRoot
	}
	if _, ok := reg.types[KindText]; !ok {
		return nil, ErrMissingRoot
	}

	for _, t := range reg.types {
		if t.Content == nil {
			continue
		}
		for _, k := range t.Content.Kinds {
			if _, ok := reg.types[k]; !ok {
				return nil, fmt.Errorf("%w: %s references %s", ErrUnknownKind, t.Name, k)
			}
		}
		if t.Content.First != "" {
			if _, ok := reg.types[t.Content.First]; !ok {
				return nil, fmt.Errorf("%w: %s references %s", ErrUnknownKind, t.Name, t.Content.First)
			}
		}
		for _, g := range t.Content.Groups {
			if g == GroupNone || !groups[g] {
				return nil, fmt.Errorf("%w: %s accepts empty group %s", ErrInvalidContent, t.Name, g)
			}
		}
		if t.Atom {
			return nil, fmt.Errorf("%w: atomic %s cannot have content", ErrInvalidContent, t.Name)
		}
	}

	return reg, nil
}

// Lookup returns the node type for kind.
func (r *Registry) Lookup(kind Kind) (*NodeType, bool) {
	t, ok := r.types[kind]
	return t, ok
}

// MustLookup returns the node type for kind and panics if it is unknown.
// Only use it with the kind constants of this package.
func (r *Registry) MustLookup(kind Kind) *NodeType {
	t, ok := r.types[kind]
	if !ok {
		panic(fmt.Sprintf("schema: unknown kind %q", kind))
	}
	return t
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.types))
	for k := range r.types {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DefaultSpecs returns the node specs of the editor schema.
func DefaultSpecs() []Spec {
	inline := &ContentSpec{Groups: []Group{GroupInline}}
	return []Spec{
		{Kind: KindDoc, Content: &ContentSpec{Groups: []Group{GroupBlock}, Min: 1}},
		{Kind: KindParagraph, Group: GroupBlock, Content: inline},
		{
			Kind:    KindHeading,
			Group:   GroupBlock,
			Content: inline,
			Attrs:   []AttrSpec{{Name: AttrLevel, Default: 1}},
		},
		{Kind: KindBlockquote, Group: GroupBlock, Content: &ContentSpec{Groups: []Group{GroupBlock}, Min: 1}},
		{Kind: KindBulletList, Group: GroupBlock, Content: &ContentSpec{Kinds: []Kind{KindListItem}, Min: 1}},
		{
			Kind:    KindListItem,
			Content: &ContentSpec{Groups: []Group{GroupBlock}, First: KindParagraph, Min: 1},
		},
		{
			Kind:       KindCodeBlock,
			Group:      GroupBlock,
			Atom:       true,
			Selectable: true,
			Attrs: []AttrSpec{
				{Name: AttrLanguage, Default: "text"},
				{Name: AttrCode, Default: ""},
				{Name: AttrOriginalText, Default: ""},
			},
		},
		{Kind: KindText, Group: GroupInline, Text: true},
		{Kind: KindHardBreak, Group: GroupInline},
		{
			Kind:       KindMath,
			Group:      GroupInline,
			Atom:       true,
			Selectable: true,
			Attrs:      []AttrSpec{{Name: AttrLatex, Default: ""}},
		},
		{
			Kind:       KindTag,
			Group:      GroupInline,
			Atom:       true,
			Selectable: true,
			Attrs:      []AttrSpec{{Name: AttrValue, Default: ""}},
		},
		{
			Kind:  KindMention,
			Group: GroupInline,
			Atom:  true,
			Attrs: []AttrSpec{
				{Name: AttrUID, Default: ""},
				{Name: AttrDisplayID, Default: ""},
			},
		},
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry built from DefaultSpecs.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := NewRegistry(DefaultSpecs()...)
		if err != nil {
			panic(fmt.Sprintf("schema: default specs: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}
