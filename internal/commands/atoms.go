package commands

import (
	"strings"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/textutil"
)

// Placeholder text inserted after each kind of inline atom.
const (
	MathPlaceholder    = textutil.ZeroWidthSpace
	TagPlaceholder     = textutil.ZeroWidthSpace
	MentionPlaceholder = " "
)

// InsertMath inserts a math atom at the selection. Zero-width characters
// are stripped from latex; malformed latex is stored as typed.
func InsertMath(latex string) engine.Command {
	return insertAtom(model.Math(textutil.StripZeroWidth(latex)), MathPlaceholder)
}

// InsertTag inserts a hashtag atom. Characters outside [A-Za-z0-9_] are
// dropped; a value with nothing left is a handled no-op.
func InsertTag(value string) engine.Command {
	value = SanitizeTag(value)
	if value == "" {
		return func(engine.State) (*transform.Transaction, bool) { return noop() }
	}
	return insertAtom(model.Tag(value), TagPlaceholder)
}

// InsertMention inserts a mention atom.
func InsertMention(uid, displayID string) engine.Command {
	return insertAtom(model.Mention(uid, displayID), MentionPlaceholder)
}

// SanitizeTag keeps only ASCII letters, digits and underscores.
func SanitizeTag(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, value)
}

// insertAtom deletes the selection, inserts atom followed by its
// placeholder and puts the cursor after the placeholder's first
// character.
func insertAtom(atom *model.Node, placeholder string) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		tr := st.Tr()
		pos := deleteSelection(tr, st.Selection)
		if tr.Err() != nil {
			return nil, false
		}
		rp, err := tr.Doc().Resolve(pos)
		if err != nil {
			return nil, false
		}
		if rp.InInline() {
			tr.Insert(pos, atom, model.NewText(placeholder))
			tr.SetSelection(pos+2, pos+2)
		} else {
			tr.Insert(pos, model.Paragraph(atom, model.NewText(placeholder)))
			tr.SetSelection(pos+3, pos+3)
		}
		return done(tr)
	}
}
