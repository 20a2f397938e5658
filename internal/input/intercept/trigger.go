package intercept

import (
	"regexp"
	"unicode/utf8"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
)

var hashtag = regexp.MustCompile(`#([\p{L}\p{N}_]+)$`)

// objectReplacement stands in for inline leaves so that offsets in the
// scanned text match document positions.
const objectReplacement = "\ufffc"

// TagTrigger turns "#word" before the cursor into a tag when a space is
// typed. The typed space becomes the tag's trailing text.
func TagTrigger() engine.Interceptor {
	return engine.NewInterceptor("tag.trigger", func(st engine.State, ev event.Event) (*transform.Transaction, bool) {
		in, ok := ev.(event.TextInput)
		if !ok || in.Text != " " {
			return nil, false
		}
		pos, ok := st.Cursor()
		if !ok {
			return nil, false
		}
		rp, err := st.Resolve(pos)
		if err != nil || !rp.InInline() {
			return nil, false
		}

		before := rp.Parent().Content().TextBetween(0, rp.ParentOffset(), "", func(*model.Node) string {
			return objectReplacement
		})
		m := hashtag.FindStringSubmatch(before)
		if m == nil {
			return nil, false
		}

		from := pos - utf8.RuneCountInString(m[0])
		tr := st.Tr().
			Delete(from, pos).
			Insert(from, model.Tag(m[1]), model.Text(" ")).
			SetSelection(from+2, from+2)
		if tr.Err() != nil {
			return nil, false
		}
		return tr, true
	})
}
