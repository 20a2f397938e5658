package history

import (
	"errors"
	"sync"
	"time"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Input types that merge into the previous entry when close in time.
const inputTypeText = "text"

// Defaults matching the editor configuration.
const (
	DefaultMaxEntries = 200
	DefaultGroupDelay = 300 * time.Millisecond
)

// OperationInfo provides read-only info about an entry.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the entry was last extended
	Steps       int       // Number of document steps
}

// entry is one undo unit.
type entry struct {
	steps       []transform.Step
	inverted    []transform.Step
	selBefore   cursor.Selection
	selAfter    cursor.Selection
	timestamp   time.Time
	description string
	appended    bool
}

func (e *entry) info() OperationInfo {
	return OperationInfo{Description: e.description, Timestamp: e.timestamp, Steps: len(e.steps)}
}

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	// Grouping state
	grouping  bool
	groupName string
	group     *entry

	// Configuration
	maxEntries int
	groupDelay time.Duration
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int, groupDelay time.Duration) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if groupDelay < 0 {
		groupDelay = 0
	}
	return &History{
		maxEntries: maxEntries,
		groupDelay: groupDelay,
	}
}

// Record adds a committed transaction to the undo stack and clears the
// redo stack. Transactions that do not change the document or opt out
// of history are ignored.
func (h *History) Record(tr *transform.Transaction, selBefore, selAfter cursor.Selection) {
	if !tr.DocChanged() {
		return
	}
	if v, ok := tr.Meta(transform.MetaAddToHistory).(bool); ok && !v {
		return
	}

	e := newEntry(tr, selBefore, selAfter)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.redoStack = nil

	if h.grouping {
		if h.group == nil {
			e.description = h.groupName
			h.group = e
		} else {
			h.group.extend(e)
		}
		return
	}

	if last := h.lastUndo(); last != nil && h.mergeable(last, e) {
		last.extend(e)
		return
	}
	h.pushLocked(e)
}

func newEntry(tr *transform.Transaction, selBefore, selAfter cursor.Selection) *entry {
	docs := tr.Docs()
	e := &entry{
		selBefore: selBefore,
		selAfter:  selAfter,
		timestamp: tr.Time(),
		appended:  tr.MetaBool(transform.MetaAppended),
	}
	if v, ok := tr.Meta(transform.MetaInputType).(string); ok {
		e.description = v
	}
	for i, s := range tr.Steps() {
		if _, ok := s.(*transform.SelectionStep); ok {
			continue
		}
		e.steps = append(e.steps, s)
		e.inverted = append(e.inverted, s.Invert(docs[i]))
	}
	return e
}

// extend appends a later entry to e.
func (e *entry) extend(later *entry) {
	e.steps = append(e.steps, later.steps...)
	e.inverted = append(e.inverted, later.inverted...)
	e.selAfter = later.selAfter
	e.timestamp = later.timestamp
}

func (h *History) mergeable(last, e *entry) bool {
	if e.appended {
		return true
	}
	return last.description == inputTypeText &&
		e.description == inputTypeText &&
		e.timestamp.Sub(last.timestamp) < h.groupDelay
}

func (h *History) lastUndo() *entry {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

// pushLocked adds an entry without acquiring the lock.
func (h *History) pushLocked(e *entry) {
	h.undoStack = append(h.undoStack, e)

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo builds the transaction that reverts the last entry on doc. The
// entry moves to the redo stack; if its steps no longer fit doc it stays
// where it was and the error is returned.
func (h *History) Undo(doc *model.Node) (*transform.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := h.lastUndo()
	if e == nil {
		return nil, ErrNothingToUndo
	}

	tr := transform.New(doc)
	for i := len(e.inverted) - 1; i >= 0; i-- {
		tr.Step(e.inverted[i])
	}
	tr.Step(e.selBefore.Step())
	if err := tr.Err(); err != nil {
		return nil, err
	}
	tr.SetMeta(transform.MetaAddToHistory, false)
	tr.SetMeta(transform.MetaInputType, "undo")

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return tr, nil
}

// Redo builds the transaction that re-applies the last undone entry.
func (h *History) Redo(doc *model.Node) (*transform.Transaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]

	tr := transform.New(doc)
	for _, s := range e.steps {
		tr.Step(s)
	}
	tr.Step(e.selAfter.Step())
	if err := tr.Err(); err != nil {
		return nil, err
	}
	tr.SetMeta(transform.MetaAddToHistory, false)
	tr.SetMeta(transform.MetaInputType, "redo")

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return tr, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts an explicit group.
// Transactions recorded while grouping become a single undo unit.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		// Already grouping, ignore nested calls
		return
	}

	h.grouping = true
	h.groupName = name
	h.group = nil
}

// EndGroup finishes a group and pushes it as one entry.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false
	if h.group != nil {
		h.pushLocked(h.group)
	}
	h.group = nil
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.group = nil
}

// UndoInfo returns info about available undo operations.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]OperationInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := h.lastUndo()
	if e == nil {
		return OperationInfo{}, false
	}
	return e.info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// SetGroupDelay changes how close typing must be to merge.
func (h *History) SetGroupDelay(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.groupDelay = d
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
