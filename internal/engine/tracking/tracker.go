package tracking

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/markup/text"
)

// DefaultMaxChanges is the default maximum number of changes to track.
const DefaultMaxChanges = 10000

// DefaultMaxRevisions is the default maximum number of revisions to store.
const DefaultMaxRevisions = 100

// Errors returned by the tracker.
var (
	ErrRevisionNotFound = errors.New("revision not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrNoRevisions      = errors.New("no revisions recorded")
)

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxChanges sets the maximum number of changes to track.
func WithMaxChanges(maxChanges int) TrackerOption {
	return func(t *Tracker) {
		if maxChanges > 0 {
			t.maxChanges = maxChanges
		}
	}
}

// WithMaxRevisions sets the maximum number of revisions to store.
func WithMaxRevisions(maxRevisions int) TrackerOption {
	return func(t *Tracker) {
		t.revisions = newRevisionStore(maxRevisions)
	}
}

// Snapshot is a named revision.
type Snapshot struct {
	Name      string
	Revision  RevisionID
	Timestamp time.Time
}

// Tracker records revisions and changes of one document.
type Tracker struct {
	mu sync.RWMutex

	changes    []Change
	maxChanges int

	revisions *revisionStore
	current   RevisionID

	snapshots map[string]Snapshot
}

// NewTracker creates a new tracker with default settings.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		maxChanges: DefaultMaxChanges,
		revisions:  newRevisionStore(DefaultMaxRevisions),
		snapshots:  make(map[string]Snapshot),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Init records the starting document as the first revision.
func (t *Tracker) Init(doc *model.Node) RevisionID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.storeLocked(doc)
}

// Record records a committed transaction and returns the new revision.
func (t *Tracker) Record(tr *transform.Transaction) RevisionID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == 0 {
		t.storeLocked(tr.Before())
	}
	rev := t.storeLocked(tr.Doc())
	t.changes = append(t.changes, changesOf(rev, tr)...)
	if excess := len(t.changes) - t.maxChanges; excess > 0 {
		t.changes = append([]Change(nil), t.changes[excess:]...)
	}
	return rev
}

func (t *Tracker) storeLocked(doc *model.Node) RevisionID {
	t.current++
	t.revisions.Add(NewRevision(t.current, doc))
	return t.current
}

// Current returns the latest revision ID, or 0 before anything was
// recorded.
func (t *Tracker) Current() RevisionID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Revision returns a stored revision.
func (t *Tracker) Revision(id RevisionID) (*Revision, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.Get(id)
}

// RevisionCount returns the number of stored revisions.
func (t *Tracker) RevisionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions.Len()
}

// ChangesSince returns the changes recorded after rev, oldest first.
func (t *Tracker) ChangesSince(rev RevisionID) ChangeSet {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cs := ChangeSet{Since: rev}
	for _, c := range t.changes {
		if c.Revision > rev {
			cs.Changes = append(cs.Changes, c)
		}
	}
	return cs
}

// DiffSince returns the line diff between rev and the current revision.
func (t *Tracker) DiffSince(rev RevisionID) (DiffResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.current == 0 {
		return DiffResult{}, ErrNoRevisions
	}
	old, ok := t.revisions.Get(rev)
	if !ok {
		return DiffResult{}, fmt.Errorf("%w: r%d", ErrRevisionNotFound, rev)
	}
	cur, _ := t.revisions.Get(t.current)
	return ComputeLineDiff(old.Text(), text.Render(cur.Doc())), nil
}

// Changed reports whether the current document differs from rev.
func (t *Tracker) Changed(rev RevisionID) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	old, ok := t.revisions.Get(rev)
	if !ok {
		return false, fmt.Errorf("%w: r%d", ErrRevisionNotFound, rev)
	}
	cur, _ := t.revisions.Get(t.current)
	return old.Fingerprint != cur.Fingerprint, nil
}

// CreateSnapshot names the current revision.
// If a snapshot with the same name exists, it is replaced.
func (t *Tracker) CreateSnapshot(name string) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == 0 {
		return Snapshot{}, ErrNoRevisions
	}
	snap := Snapshot{Name: name, Revision: t.current, Timestamp: time.Now()}
	t.snapshots[name] = snap
	return snap, nil
}

// DiffSinceSnapshot diffs the named snapshot against the current revision.
func (t *Tracker) DiffSinceSnapshot(name string) (DiffResult, error) {
	t.mu.RLock()
	snap, ok := t.snapshots[name]
	t.mu.RUnlock()
	if !ok {
		return DiffResult{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	return t.DiffSince(snap.Revision)
}

// Snapshots lists snapshots ordered by revision.
func (t *Tracker) Snapshots() []Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Snapshot, 0, len(t.snapshots))
	for _, s := range t.snapshots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revision < out[j].Revision })
	return out
}

// Clear drops all revisions, changes and snapshots.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.changes = nil
	t.revisions.Clear()
	t.current = 0
	t.snapshots = make(map[string]Snapshot)
}
