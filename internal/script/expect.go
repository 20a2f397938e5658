package script

import (
	"fmt"
	"strings"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/markup"
)

// Mismatch is an expectation the replayed document did not meet.
type Mismatch struct {
	Field string
	Want  string
	Got   string
}

// Check compares doc and sel with the expectation. Serialized forms are
// compared without trailing whitespace; JSON is compared as a document.
func (e *Expect) Check(doc *model.Node, sel cursor.Selection) ([]Mismatch, error) {
	if e == nil {
		return nil, nil
	}
	var out []Mismatch
	for _, c := range []struct {
		format markup.Format
		want   string
	}{
		{markup.Text, e.Text},
		{markup.HTML, e.HTML},
		{markup.Markdown, e.Markdown},
		{markup.JSON, e.JSON},
	} {
		if c.want == "" {
			continue
		}
		if c.format == markup.JSON {
			m, err := checkJSON(c.want, doc)
			if err != nil {
				return nil, err
			}
			if m != nil {
				out = append(out, *m)
			}
			continue
		}
		got, err := markup.Encode(c.format, doc)
		if err != nil {
			return nil, err
		}
		if want, got := strings.TrimRight(c.want, " \n"), strings.TrimRight(got, " \n"); want != got {
			out = append(out, Mismatch{Field: string(c.format), Want: want, Got: got})
		}
	}
	if want, ok := e.selection(); ok && (want.Anchor != sel.Anchor || want.Head != sel.Head) {
		out = append(out, Mismatch{
			Field: "selection",
			Want:  fmt.Sprintf("%d %d", want.Anchor, want.Head),
			Got:   fmt.Sprintf("%d %d", sel.Anchor, sel.Head),
		})
	}
	return out, nil
}

func (e *Expect) selection() (cursor.Selection, bool) {
	switch len(e.Selection) {
	case 1:
		return cursor.Cursor(e.Selection[0]), true
	case 2:
		return cursor.TextSelection(e.Selection[0], e.Selection[1]), true
	}
	return cursor.Selection{}, false
}

func checkJSON(want string, doc *model.Node) (*Mismatch, error) {
	wantDoc, err := markup.Decode(markup.JSON, want)
	if err != nil {
		return nil, fmt.Errorf("expect json: %w", err)
	}
	if wantDoc.Equal(doc) {
		return nil, nil
	}
	w, err := markup.Encode(markup.JSON, wantDoc)
	if err != nil {
		return nil, err
	}
	g, err := markup.Encode(markup.JSON, doc)
	if err != nil {
		return nil, err
	}
	return &Mismatch{Field: string(markup.JSON), Want: w, Got: g}, nil
}
