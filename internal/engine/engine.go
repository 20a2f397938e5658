package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/history"
	"github.com/jearn/composer/internal/engine/limit"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/tracking"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/logging"
	"github.com/jearn/composer/internal/markup/text"
)

// Re-exported tracking types.
type (
	RevisionID = tracking.RevisionID
	DiffResult = tracking.DiffResult
	ChangeSet  = tracking.ChangeSet
	Snapshot   = tracking.Snapshot
)

// Editor owns the one live document of an editing session.
//
// Every change goes through Dispatch: the transaction must be built on
// the current document and free of failed steps, every filter must
// accept it, and it must respect the character limit. The committed
// selection is normalized once by the maintainer, then the change is
// recorded in history and tracking, appenders run, and subscribers are
// notified.
//
// Editor methods are safe to call from multiple goroutines. Interceptors
// and commands run on a snapshot outside the lock; a transaction built on
// a snapshot that went stale is rejected.
type Editor struct {
	mu sync.RWMutex

	state State

	// Core components
	maintainer *cursor.Maintainer
	history    *history.History
	tracker    *tracking.Tracker
	limiter    *limit.Limiter

	interceptors []Interceptor
	fallback     Interceptor
	filters      []namedFilter
	appenders    []namedAppender

	subMu       sync.Mutex
	subscribers map[int]func(State, *transform.Transaction)
	nextSub     int

	logger *logging.Logger

	// Configuration
	initDoc      *model.Node
	maxChars     int
	historyDepth int
	historyDelay time.Duration
	maxChanges   int
	maxRevisions int
}

// New creates an Editor with the given options.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{
		maxChars:     DefaultMaxChars,
		historyDepth: DefaultHistoryDepth,
		historyDelay: DefaultHistoryGroupDelay,
		maxChanges:   DefaultMaxChanges,
		maxRevisions: DefaultMaxRevisions,
		logger:       logging.Null,
		maintainer:   cursor.NewMaintainer(),
		subscribers:  make(map[int]func(State, *transform.Transaction)),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = history.NewHistory(e.historyDepth, e.historyDelay)
	e.tracker = tracking.NewTracker(
		tracking.WithMaxChanges(e.maxChanges),
		tracking.WithMaxRevisions(e.maxRevisions),
	)
	if e.maxChars > 0 {
		e.limiter = limit.New(e.maxChars)
	}
	e.logger = e.logger.WithComponent("engine")

	doc := e.initDoc
	if doc == nil {
		doc = model.Doc(model.Paragraph())
	}
	if err := e.resetLocked(doc); err != nil {
		return nil, err
	}
	return e, nil
}

// resetLocked installs doc with the cursor at its first inline position.
func (e *Editor) resetLocked(doc *model.Node) error {
	if err := doc.Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	sel, fix := e.maintainer.Normalize(doc, cursor.Cursor(0))
	if fix.Placeholder {
		tr := transform.New(doc).Insert(fix.At, model.Paragraph())
		if err := tr.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		doc = tr.Doc()
	}
	e.state = State{Doc: doc, Selection: sel}
	e.history.Clear()
	e.tracker.Clear()
	e.tracker.Init(doc)
	return nil
}

// Reset replaces the document, dropping history and tracked revisions.
func (e *Editor) Reset(doc *model.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetLocked(doc)
}

// ============================================================================
// Read Operations
// ============================================================================

// State returns the current snapshot.
func (e *Editor) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Doc returns the current document.
func (e *Editor) Doc() *model.Node {
	return e.State().Doc
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	return e.State().Selection
}

// Text renders the document as plain text.
func (e *Editor) Text() string {
	return text.Render(e.Doc())
}

// CharCount returns the document length under the character limit rules.
func (e *Editor) CharCount() int {
	return limit.Count(e.Doc())
}

// Remaining returns how many characters may still be added, or -1 when
// no limit is configured.
func (e *Editor) Remaining() int {
	if e.limiter == nil {
		return -1
	}
	return e.limiter.Remaining(e.Doc())
}

// Interceptors returns the names of the configured interceptors in
// dispatch order.
func (e *Editor) Interceptors() []string {
	names := make([]string, 0, len(e.interceptors)+1)
	for _, ic := range e.interceptors {
		names = append(names, ic.Name())
	}
	if e.fallback != nil {
		names = append(names, e.fallback.Name())
	}
	return names
}

// ============================================================================
// Write Operations
// ============================================================================

// Dispatch commits tr. On error the document and selection are left
// unchanged.
func (e *Editor) Dispatch(tr *transform.Transaction) error {
	e.mu.Lock()
	before := e.state
	err := e.dispatchLocked(tr, true)
	after := e.state
	e.mu.Unlock()

	if err != nil {
		e.logger.Debug("rejected %s: %v", describe(tr), err)
		return err
	}
	if after != before {
		e.notify(after, tr)
	}
	return nil
}

func (e *Editor) dispatchLocked(tr *transform.Transaction, root bool) error {
	if tr == nil {
		return ErrNilTransaction
	}
	if err := tr.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedTransaction, err)
	}
	if tr.Before() != e.state.Doc {
		return ErrStaleTransaction
	}

	// History replays states that were already accepted once.
	before := e.state
	if !isHistoryTransaction(tr) {
		for _, f := range e.filters {
			if err := f.fn(before, tr); err != nil {
				return fmt.Errorf("%w by %s: %w", ErrRejected, f.name, err)
			}
		}
		if e.limiter != nil && !restoring(tr) && !e.limiter.Allow(before.Doc, tr.Doc()) {
			return fmt.Errorf("%w: %d > %d", ErrCharLimit, limit.Count(tr.Doc()), e.limiter.Max())
		}
	}

	e.commitLocked(tr)

	if !root {
		return nil
	}
	for _, a := range e.appenders {
		atr := a.fn(tr, before, e.state)
		if atr == nil {
			continue
		}
		atr.SetMeta(transform.MetaAppended, true)
		if atr.Meta(transform.MetaInputType) == nil {
			atr.SetMeta(transform.MetaInputType, tr.Meta(transform.MetaInputType))
		}
		if err := e.dispatchLocked(atr, false); err != nil {
			e.logger.Debug("appender %s: %v", a.name, err)
		}
	}
	return nil
}

// commitLocked installs tr's document and the normalized selection.
func (e *Editor) commitLocked(tr *transform.Transaction) {
	before := e.state
	sel := before.Selection.Map(tr.Mapping())
	if s, ok := tr.Selection(); ok {
		sel = cursor.FromStep(s)
	}

	sel, fix := e.maintainer.Normalize(tr.Doc(), sel)
	if fix.Placeholder {
		steps := len(tr.Steps())
		tr.Insert(fix.At, model.Paragraph())
		if len(tr.Steps()) == steps {
			e.logger.Warn("placeholder at %d: %v", fix.At, tr.Err())
			sel = cursor.Cursor(fix.At)
		}
	}

	e.state = State{Doc: tr.Doc(), Selection: sel}
	e.history.Record(tr, before.Selection, sel)
	if tr.DocChanged() {
		e.tracker.Record(tr)
	}
}

// Run runs cmd on the current state and dispatches its transaction.
// It reports whether the command applied.
func (e *Editor) Run(cmd Command) (bool, error) {
	tr, ok := cmd(e.State())
	if !ok {
		return false, nil
	}
	if tr == nil {
		return true, nil
	}
	return true, e.Dispatch(tr)
}

// SetSelection replaces the selection. It is normalized like any
// committed selection.
func (e *Editor) SetSelection(sel Selection) error {
	st := e.State()
	if err := sel.Valid(st.Doc); err != nil {
		return err
	}
	tr := st.Tr()
	tr.Step(sel.Step())
	tr.SetMeta(transform.MetaAddToHistory, false)
	return e.Dispatch(tr)
}

// Handle runs ev through the interceptors in order; the first one that
// does not decline produces the transaction. If all decline, the
// fallback runs, then the built-in text insertion. It reports whether
// the event was handled. Errors are rejections of the produced
// transaction; the document is unchanged in that case.
func (e *Editor) Handle(ev event.Event) (bool, error) {
	st := e.State()

	interceptors := e.interceptors
	if e.fallback != nil {
		interceptors = append(interceptors[:len(interceptors):len(interceptors)], e.fallback)
	}
	for _, ic := range interceptors {
		tr, ok := ic.Intercept(st, ev)
		if !ok {
			continue
		}
		e.logger.Debug("%s handled by %s", ev, ic.Name())
		return true, e.dispatchEvent(tr, ev)
	}

	if in, ok := ev.(event.TextInput); ok {
		return true, e.dispatchEvent(InsertText(st, in.Text), ev)
	}
	return false, nil
}

func (e *Editor) dispatchEvent(tr *transform.Transaction, ev event.Event) error {
	if tr == nil {
		return nil
	}
	if tr.Meta(transform.MetaInputType) == nil {
		tr.SetMeta(transform.MetaInputType, InputType(ev))
	}
	return e.Dispatch(tr)
}

// InsertText replaces the selection with s and places the cursor after
// it. A newline-free string is expected; the built-in text input never
// splits blocks.
func InsertText(st State, s string) *transform.Transaction {
	from, to := st.Selection.From(), st.Selection.To()
	tr := st.Tr().Delete(from, to).InsertText(from, s)
	end := from + len([]rune(s))
	return tr.SetSelection(end, end)
}

// InputType names the history input type of ev.
func InputType(ev event.Event) string {
	switch ev := ev.(type) {
	case event.TextInput:
		return "text"
	case event.Paste:
		return "paste"
	case event.KeyEvent:
		if ev.IsModified() || ev.IsRune() {
			return ev.Event.String()
		}
		return strings.ToLower(ev.Key.String())
	default:
		return ev.Type().String()
	}
}

// Undo reverts the last history entry.
func (e *Editor) Undo() error {
	return e.applyHistory(e.history.Undo)
}

// Redo re-applies the last undone entry.
func (e *Editor) Redo() error {
	return e.applyHistory(e.history.Redo)
}

func (e *Editor) applyHistory(build func(*model.Node) (*transform.Transaction, error)) error {
	e.mu.Lock()
	tr, err := build(e.state.Doc)
	if err == nil {
		err = e.dispatchLocked(tr, false)
	}
	after := e.state
	e.mu.Unlock()

	if err != nil {
		if !errors.Is(err, ErrNothingToUndo) && !errors.Is(err, ErrNothingToRedo) {
			e.logger.Warn("history: %v", err)
		}
		return err
	}
	e.notify(after, tr)
	return nil
}

// CanUndo reports whether there is anything to undo.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether there is anything to redo.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// History returns the undo history for grouping and inspection.
func (e *Editor) History() *history.History {
	return e.history
}

// isHistoryTransaction reports whether tr replays history.
// restoring reports an appended transaction that restores removed content.
func restoring(tr *transform.Transaction) bool {
	return tr.MetaBool(transform.MetaAppended) && tr.MetaBool(transform.MetaRestoring)
}

func isHistoryTransaction(tr *transform.Transaction) bool {
	switch tr.Meta(transform.MetaInputType) {
	case "undo", "redo":
		return true
	}
	return false
}

func describe(tr *transform.Transaction) string {
	if tr == nil {
		return "<nil>"
	}
	if t, ok := tr.Meta(transform.MetaInputType).(string); ok {
		return fmt.Sprintf("%s transaction (%d steps)", t, len(tr.Steps()))
	}
	return fmt.Sprintf("transaction (%d steps)", len(tr.Steps()))
}

// ============================================================================
// Subscriptions
// ============================================================================

// Subscribe registers fn to be called after every commit with the new
// state and the committed transaction. The returned function removes it.
func (e *Editor) Subscribe(fn func(State, *transform.Transaction)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subscribers[id] = fn
	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Editor) notify(st State, tr *transform.Transaction) {
	e.subMu.Lock()
	fns := make([]func(State, *transform.Transaction), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(st, tr)
	}
}

// ============================================================================
// Change Tracking
// ============================================================================

// Revision returns the current revision ID.
func (e *Editor) Revision() RevisionID {
	return e.tracker.Current()
}

// ChangesSince returns the changes recorded after rev.
func (e *Editor) ChangesSince(rev RevisionID) ChangeSet {
	return e.tracker.ChangesSince(rev)
}

// DiffSince returns the plain-text line diff since rev.
func (e *Editor) DiffSince(rev RevisionID) (DiffResult, error) {
	return e.tracker.DiffSince(rev)
}

// HasChangedSince reports whether the document differs from rev.
func (e *Editor) HasChangedSince(rev RevisionID) (bool, error) {
	return e.tracker.Changed(rev)
}

// CreateSnapshot names the current revision.
func (e *Editor) CreateSnapshot(name string) (Snapshot, error) {
	return e.tracker.CreateSnapshot(name)
}

// DiffSinceSnapshot returns the diff since a named snapshot.
func (e *Editor) DiffSinceSnapshot(name string) (DiffResult, error) {
	return e.tracker.DiffSinceSnapshot(name)
}
