package transform

import (
	"time"

	"github.com/jearn/composer/internal/engine/model"
)

// Well-known metadata keys.
const (
	// MetaHardDelete marks a deletion that must leave no trace.
	MetaHardDelete = "hardDelete"
	// MetaAddToHistory set to false keeps a transaction out of undo history.
	MetaAddToHistory = "addToHistory"
	// MetaInputType names the input that produced a transaction
	// ("backspace", "paste", "enter", "undo", ...).
	MetaInputType = "inputType"
	// MetaAppended marks transactions produced by post-commit appenders.
	MetaAppended = "appendedTransaction"
	// MetaRestoring marks an appended transaction that puts back content
	// its root transaction removed. It is not held to the character
	// limit.
	MetaRestoring = "restoring"
)

// Transaction accumulates steps over a start document.
type Transaction struct {
	before  *model.Node
	doc     *model.Node
	steps   []Step
	docs    []*model.Node
	mapping *Mapping
	sel     *SelectionStep
	meta    map[string]any
	err     error
	time    time.Time
}

// New starts a transaction over doc.
func New(doc *model.Node) *Transaction {
	return &Transaction{
		before:  doc,
		doc:     doc,
		mapping: NewMapping(),
		time:    time.Now(),
	}
}

// Before returns the document the transaction started from.
func (tr *Transaction) Before() *model.Node {
	return tr.before
}

// Doc returns the current document.
func (tr *Transaction) Doc() *model.Node {
	return tr.doc
}

// Steps returns the applied steps.
func (tr *Transaction) Steps() []Step {
	return append([]Step(nil), tr.steps...)
}

// Docs returns the document before each applied step.
func (tr *Transaction) Docs() []*model.Node {
	return append([]*model.Node(nil), tr.docs...)
}

// Mapping maps positions in the start document to the current one.
func (tr *Transaction) Mapping() *Mapping {
	return tr.mapping
}

// Err reports the first step failure.
func (tr *Transaction) Err() error {
	return tr.err
}

// DocChanged reports whether any step changed the document.
func (tr *Transaction) DocChanged() bool {
	for _, s := range tr.steps {
		if _, ok := s.(*SelectionStep); !ok {
			return true
		}
	}
	return false
}

// Time is when the transaction was created.
func (tr *Transaction) Time() time.Time {
	return tr.time
}

// SetTime overrides the creation time.
func (tr *Transaction) SetTime(t time.Time) *Transaction {
	tr.time = t
	return tr
}

// Step applies s. Once a step fails the transaction is poisoned and
// later steps are ignored.
func (tr *Transaction) Step(s Step) *Transaction {
	if tr.err != nil {
		return tr
	}
	doc, err := s.Apply(tr.doc)
	if err != nil {
		tr.err = &StepError{Index: len(tr.steps), Step: s, Err: err}
		return tr
	}
	tr.docs = append(tr.docs, tr.doc)
	tr.steps = append(tr.steps, s)
	tr.mapping.Append(s.Map())
	tr.doc = doc
	if sel, ok := s.(*SelectionStep); ok {
		tr.sel = sel
	}
	return tr
}

// Replace replaces [from, to) with slice. An empty no-op replace is
// skipped.
func (tr *Transaction) Replace(from, to int, slice model.Slice) *Transaction {
	if from == to && slice.Content.Size() == 0 {
		return tr
	}
	return tr.Step(NewReplaceStep(from, to, slice))
}

// ReplaceRange replaces [from, to) with closed nodes.
func (tr *Transaction) ReplaceRange(from, to int, nodes []*model.Node) *Transaction {
	return tr.Replace(from, to, model.ClosedSlice(nodes...))
}

// ReplaceWith is the variadic form of ReplaceRange.
func (tr *Transaction) ReplaceWith(from, to int, nodes ...*model.Node) *Transaction {
	return tr.ReplaceRange(from, to, nodes)
}

// Insert inserts nodes at pos.
func (tr *Transaction) Insert(pos int, nodes ...*model.Node) *Transaction {
	return tr.ReplaceRange(pos, pos, nodes)
}

// InsertText inserts a text run at pos.
func (tr *Transaction) InsertText(pos int, text string) *Transaction {
	if text == "" {
		return tr
	}
	return tr.Insert(pos, model.NewText(text))
}

// Delete removes [from, to).
func (tr *Transaction) Delete(from, to int) *Transaction {
	if from == to {
		return tr
	}
	return tr.Replace(from, to, model.EmptySlice)
}

// SetSelection records a text selection in current document positions.
func (tr *Transaction) SetSelection(anchor, head int) *Transaction {
	return tr.Step(&SelectionStep{Anchor: anchor, Head: head})
}

// SetNodeSelection records a node selection of the node at pos.
func (tr *Transaction) SetNodeSelection(pos int) *Transaction {
	return tr.Step(&SelectionStep{Anchor: pos, Head: pos + 1, Node: true})
}

// Selection returns the last selection set in the transaction, mapped
// through the steps applied after it.
func (tr *Transaction) Selection() (SelectionStep, bool) {
	if tr.sel == nil {
		return SelectionStep{}, false
	}
	idx := -1
	for i := len(tr.steps) - 1; i >= 0; i-- {
		if tr.steps[i] == Step(tr.sel) {
			idx = i
			break
		}
	}
	rest := tr.mapping.Slice(idx+1, tr.mapping.Len())
	if tr.sel.Node {
		pos := rest.MapResult(tr.sel.Anchor, 1)
		if pos.Deleted {
			return SelectionStep{Anchor: pos.Pos, Head: pos.Pos}, true
		}
		return SelectionStep{Anchor: pos.Pos, Head: pos.Pos + 1, Node: true}, true
	}
	return SelectionStep{
		Anchor: rest.Map(tr.sel.Anchor, 1),
		Head:   rest.Map(tr.sel.Head, 1),
	}, true
}

// SelectionSet reports whether the transaction set a selection.
func (tr *Transaction) SelectionSet() bool {
	return tr.sel != nil
}

// SetMeta attaches metadata.
func (tr *Transaction) SetMeta(key string, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns metadata set with SetMeta.
func (tr *Transaction) Meta(key string) any {
	return tr.meta[key]
}

// MetaBool returns metadata as a bool.
func (tr *Transaction) MetaBool(key string) bool {
	v, _ := tr.meta[key].(bool)
	return v
}

// Result is the outcome of Apply.
type Result struct {
	Doc     *model.Node
	Docs    []*model.Node
	Mapping *Mapping
}

// Apply applies steps to doc as one unit: either all steps succeed or
// the error of the first failing one is returned and nothing changes.
func Apply(doc *model.Node, steps ...Step) (Result, error) {
	tr := New(doc)
	for _, s := range steps {
		tr.Step(s)
	}
	if err := tr.Err(); err != nil {
		return Result{Doc: doc}, err
	}
	return Result{Doc: tr.Doc(), Docs: tr.Docs(), Mapping: tr.Mapping()}, nil
}
