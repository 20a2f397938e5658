package suggest

import (
	"regexp"
	"unicode/utf8"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
)

// mentionQuery matches "@" at a line start or after whitespace, followed
// by the query typed so far. Spaces end the query.
var mentionQuery = regexp.MustCompile(`(?:^|\s)@([^\s@\x{FFFC}]*)$`)

// Query is the "@query" text before the cursor.
type Query struct {
	// Text is the query without the "@".
	Text string

	// From and To delimit "@query" in the document.
	From, To int
}

// Empty reports whether only "@" has been typed.
func (q Query) Empty() bool {
	return q.Text == ""
}

// Detect returns the mention query ending at a collapsed cursor.
func Detect(st engine.State) (Query, bool) {
	pos, ok := st.Cursor()
	if !ok {
		return Query{}, false
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() {
		return Query{}, false
	}
	before := rp.Parent().Content().TextBetween(0, rp.ParentOffset(), "", func(*model.Node) string {
		return "\ufffc"
	})
	m := mentionQuery.FindStringSubmatch(before)
	if m == nil {
		return Query{}, false
	}
	return Query{
		Text: m[1],
		From: pos - utf8.RuneCountInString(m[1]) - 1,
		To:   pos,
	}, true
}
