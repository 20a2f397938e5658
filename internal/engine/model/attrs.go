package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Attrs holds the kind-specific payload of a node.
// Values are strings or ints. An Attrs value reachable from a Node must
// never be modified; use With to derive a changed copy.
type Attrs map[string]any

// Get returns the raw attribute value.
func (a Attrs) Get(name string) any {
	if a == nil {
		return nil
	}
	return a[name]
}

// String returns the attribute as a string, or "" if absent.
func (a Attrs) String(name string) string {
	switch v := a.Get(name).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the attribute as an int, or 0 if absent or not numeric.
func (a Attrs) Int(name string) int {
	switch v := a.Get(name).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// With returns a copy of a with name set to value.
func (a Attrs) With(name string, value any) Attrs {
	out := make(Attrs, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[name] = value
	return out
}

// Clone returns a shallow copy.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equal reports whether both sets hold the same values.
func (a Attrs) Equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(w) {
			return false
		}
	}
	return true
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// format renders the attributes as {k="v", ...} for debugging.
func (a Attrs) format() string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a))
	for _, k := range a.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%q", k, a.String(k)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
