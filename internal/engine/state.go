package engine

import (
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
)

// Re-exported types so callers rarely need the sub-packages.
type (
	// Selection is the user's selection.
	Selection = cursor.Selection

	// Transaction is a batch of steps over one document.
	Transaction = transform.Transaction

	// Event is a host input event.
	Event = event.Event
)

// State is an immutable snapshot of the editor: the document and the
// selection in it.
type State struct {
	Doc       *model.Node
	Selection cursor.Selection
}

// Tr starts a transaction over the state's document.
func (s State) Tr() *transform.Transaction {
	return transform.New(s.Doc)
}

// Cursor returns the position of a collapsed text selection.
func (s State) Cursor() (int, bool) {
	if s.Selection.IsNode() || !s.Selection.Empty() {
		return 0, false
	}
	return s.Selection.Head, true
}

// Resolve resolves pos in the state's document.
func (s State) Resolve(pos int) (*model.ResolvedPos, error) {
	return s.Doc.Resolve(pos)
}

// SelectedNode returns the node of a node selection, or nil.
func (s State) SelectedNode() *model.Node {
	return s.Selection.Node(s.Doc)
}

// Command turns a state into a transaction. It returns false when it
// does not apply; a true result with a nil transaction means the command
// applies but has nothing to change.
type Command func(st State) (*transform.Transaction, bool)

// Interceptor inspects an input event before the default behaviour.
// Returning false declines and the next interceptor runs.
type Interceptor interface {
	Name() string
	Intercept(st State, ev event.Event) (*transform.Transaction, bool)
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc struct {
	name string
	fn   func(st State, ev event.Event) (*transform.Transaction, bool)
}

// NewInterceptor returns a named Interceptor backed by fn.
func NewInterceptor(name string, fn func(st State, ev event.Event) (*transform.Transaction, bool)) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Name implements Interceptor.
func (f *InterceptorFunc) Name() string { return f.name }

// Intercept implements Interceptor.
func (f *InterceptorFunc) Intercept(st State, ev event.Event) (*transform.Transaction, bool) {
	return f.fn(st, ev)
}

// Filter runs before a transaction is committed. A non-nil error rejects
// the transaction. Filters may attach metadata to tr for appenders.
type Filter func(st State, tr *transform.Transaction) error

// Appender runs after a root transaction was committed and may return a
// follow-up transaction built on after.Doc. Appended transactions are
// filtered and recorded but never trigger appenders again.
type Appender func(tr *transform.Transaction, before, after State) *transform.Transaction

type namedFilter struct {
	name string
	fn   Filter
}

type namedAppender struct {
	name string
	fn   Appender
}
