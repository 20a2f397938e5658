// Package jsondoc converts documents to and from their JSON form:
//
//	{"type":"doc","content":[{"type":"paragraph","content":[
//	  {"type":"text","text":"a"},{"type":"math","attrs":{"latex":"x"}}]}]}
package jsondoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
)

// Errors returned by Unmarshal.
var (
	ErrInvalidJSON = errors.New("invalid json")
	ErrUnknownType = errors.New("unknown node type")
)

// Marshal returns the compact JSON form of n.
func Marshal(n *model.Node) ([]byte, error) {
	s, err := encode(n)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// MarshalIndent returns the JSON form of n, indented for reading.
func MarshalIndent(n *model.Node) ([]byte, error) {
	b, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(b), nil
}

func encode(n *model.Node) (string, error) {
	js, err := sjson.Set("", "type", string(n.Kind()))
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", n.Kind(), err)
	}
	if n.IsText() {
		return sjson.Set(js, "text", n.Text())
	}

	attrs := n.Attrs()
	for _, key := range attrs.Keys() {
		js, err = sjson.Set(js, "attrs."+key, attrs.Get(key))
		if err != nil {
			return "", fmt.Errorf("encode %s.%s: %w", n.Kind(), key, err)
		}
	}

	if n.ChildCount() == 0 {
		return js, nil
	}
	children := make([]string, n.ChildCount())
	for i := range children {
		if children[i], err = encode(n.Child(i)); err != nil {
			return "", err
		}
	}
	return sjson.SetRaw(js, "content", "["+strings.Join(children, ",")+"]")
}

// Unmarshal parses the JSON form of a node. The result is checked
// against the schema.
func Unmarshal(data []byte) (*model.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	n, err := decode(gjson.ParseBytes(data))
	if err != nil {
		return nil, err
	}
	if err := n.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return n, nil
}

func decode(r gjson.Result) (*model.Node, error) {
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: node is %s", ErrInvalidJSON, r.Type)
	}
	kind := schema.Kind(r.Get("type").String())
	t, ok := schema.Default().Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	if t.IsText() {
		text := model.Text(r.Get("text").String())
		if text == nil {
			return nil, fmt.Errorf("%w: empty text node", ErrInvalidJSON)
		}
		return text, nil
	}

	defaults := t.DefaultAttrs()
	attrs := model.Attrs{}
	r.Get("attrs").ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = attrValue(defaults[key.String()], value)
		return true
	})

	var children []*model.Node
	var err error
	r.Get("content").ForEach(func(_, value gjson.Result) bool {
		var child *model.Node
		if child, err = decode(value); err != nil {
			return false
		}
		children = append(children, child)
		return true
	})
	if err != nil {
		return nil, err
	}
	return model.NewNode(t, attrs, children...)
}

// attrValue converts value to the type of the attribute's default.
func attrValue(def any, value gjson.Result) any {
	switch def.(type) {
	case int:
		return int(value.Int())
	case string:
		return value.String()
	case bool:
		return value.Bool()
	default:
		return value.Value()
	}
}
