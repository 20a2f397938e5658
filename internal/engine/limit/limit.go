// Package limit enforces the maximum post length.
//
// Length is counted the way readers perceive it: visible characters of
// text, one per paragraph and line break, the latex source of math and
// "#" plus the value of a hashtag. Zero-width placeholders never count.
package limit

import (
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/textutil"
)

// DefaultMax is the default maximum length.
const DefaultMax = 20000

// Count returns the length of doc. The first paragraph break does not
// count, so an empty document has length 0.
func Count(doc *model.Node) int {
	count := 0
	doc.Descendants(func(n *model.Node, _ int, _ *model.Node, _ int) bool {
		switch n.Kind() {
		case schema.KindParagraph:
			count++
		case schema.KindHardBreak:
			count++
		case schema.KindTag:
			count += 1 + textutil.GraphemeCount(textutil.StripZeroWidth(n.Attr(schema.AttrValue)))
		case schema.KindMath:
			count += textutil.GraphemeCount(textutil.StripZeroWidth(n.Attr(schema.AttrLatex)))
		case schema.KindText:
			count += textutil.GraphemeCount(textutil.StripZeroWidth(n.Text()))
		}
		return !n.IsLeaf()
	})
	if count > 0 {
		return count - 1
	}
	return 0
}

// Limiter accepts or refuses document changes by length.
type Limiter struct {
	max int
}

// New returns a limiter for max characters. Non-positive max uses
// DefaultMax.
func New(max int) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	return &Limiter{max: max}
}

// Max returns the configured maximum.
func (l *Limiter) Max() int {
	return l.max
}

// Allow reports whether changing before into after is acceptable. A
// change that ends within the limit is always allowed; a document
// already over the limit may still shrink.
func (l *Limiter) Allow(before, after *model.Node) bool {
	n := Count(after)
	if n <= l.max {
		return true
	}
	return n <= Count(before)
}

// Remaining returns how many characters may still be added.
func (l *Limiter) Remaining(doc *model.Node) int {
	return l.max - Count(doc)
}
