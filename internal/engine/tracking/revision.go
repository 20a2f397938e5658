package tracking

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/markup/text"
)

// RevisionID uniquely identifies a document state. IDs increase with
// every recorded commit; 0 is never used.
type RevisionID uint64

// Revision captures a document state at a point in time.
// It stores a reference to the immutable document, so keeping it costs
// only the nodes that changed.
type Revision struct {
	// ID uniquely identifies this revision.
	ID RevisionID

	// Timestamp when this revision was created.
	Timestamp time.Time

	// Fingerprint is the hex BLAKE3 hash of the document structure.
	Fingerprint string

	doc *model.Node
}

// NewRevision creates a new revision for doc.
func NewRevision(id RevisionID, doc *model.Node) *Revision {
	return &Revision{
		ID:          id,
		Timestamp:   time.Now(),
		Fingerprint: Fingerprint(doc),
		doc:         doc,
	}
}

// Doc returns the document at this revision.
func (r *Revision) Doc() *model.Node {
	return r.doc
}

// Text returns the rendered plain text at this revision.
func (r *Revision) Text() string {
	return text.Render(r.doc)
}

// Fingerprint hashes the structure of doc. Equal documents have equal
// fingerprints.
func Fingerprint(doc *model.Node) string {
	sum := blake3.Sum256([]byte(doc.String()))
	return hex.EncodeToString(sum[:])
}

// revisionStore manages a bounded collection of revisions.
// It uses a map for fast lookup while maintaining a bounded size.
type revisionStore struct {
	revisions  map[RevisionID]*Revision
	maxEntries int
	oldestID   RevisionID
}

// newRevisionStore creates a new revision store with the given capacity.
func newRevisionStore(maxEntries int) *revisionStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxRevisions
	}
	return &revisionStore{
		revisions:  make(map[RevisionID]*Revision),
		maxEntries: maxEntries,
	}
}

// Add stores a revision, evicting old entries if necessary.
func (rs *revisionStore) Add(rev *Revision) {
	rs.revisions[rev.ID] = rev

	if rs.oldestID == 0 || rev.ID < rs.oldestID {
		rs.oldestID = rev.ID
	}

	// Revisions arrive in increasing order, so evicting from oldestID
	// upwards removes the oldest ones.
	for len(rs.revisions) > rs.maxEntries {
		delete(rs.revisions, rs.oldestID)
		rs.oldestID++
	}
}

// Get retrieves a revision by ID.
func (rs *revisionStore) Get(id RevisionID) (*Revision, bool) {
	rev, ok := rs.revisions[id]
	return rev, ok
}

// Len returns the number of stored revisions.
func (rs *revisionStore) Len() int {
	return len(rs.revisions)
}

// Clear removes all revisions.
func (rs *revisionStore) Clear() {
	rs.revisions = make(map[RevisionID]*Revision)
	rs.oldestID = 0
}
