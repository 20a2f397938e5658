package suggest

import (
	"context"
	"strings"

	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/transform"
)

// Suggest detects the query before the cursor and searches dir for it.
// A bare "@" yields no users and no error.
func Suggest(ctx context.Context, dir Directory, st engine.State, limit int) (Query, []User, error) {
	q, ok := Detect(st)
	if !ok {
		return Query{}, nil, ErrNoQuery
	}
	if strings.TrimSpace(q.Text) == "" {
		return q, nil, nil
	}
	users, err := dir.Search(ctx, q.Text, limit)
	if err != nil {
		return q, nil, err
	}
	return q, users, nil
}

// Choose replaces "@query" with a mention of u. It declines when the
// document no longer holds the query at q's range.
func Choose(q Query, u User) engine.Command {
	return func(st engine.State) (*transform.Transaction, bool) {
		if u.UID == "" || q.From < 0 || q.To > st.Doc.Content().Size() || q.From >= q.To {
			return nil, false
		}
		if st.Doc.TextBetween(q.From, q.To, "", nil) != "@"+q.Text {
			return nil, false
		}
		st.Selection = cursor.TextSelection(q.From, q.To)
		return commands.InsertMention(u.UID, u.Handle())(st)
	}
}
