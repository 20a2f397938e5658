package tracking

import (
	"fmt"

	"github.com/jearn/composer/internal/engine/transform"
)

// ChangeType classifies a change.
type ChangeType uint8

const (
	// ChangeInsert adds content without removing any.
	ChangeInsert ChangeType = iota
	// ChangeDelete removes content without adding any.
	ChangeDelete
	// ChangeReplace removes and adds content.
	ChangeReplace
)

// String returns a human-readable name for the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	default:
		return "replace"
	}
}

// Change is one replaced range of a committed step, in the coordinates
// of the document the step applied to.
type Change struct {
	Revision RevisionID
	From     int
	To       int
	Inserted int
}

// Type classifies the change.
func (c Change) Type() ChangeType {
	switch {
	case c.From == c.To:
		return ChangeInsert
	case c.Inserted == 0:
		return ChangeDelete
	default:
		return ChangeReplace
	}
}

// Delta is the change in document size.
func (c Change) Delta() int {
	return c.Inserted - (c.To - c.From)
}

// String returns a compact description.
func (c Change) String() string {
	return fmt.Sprintf("r%d %s [%d, %d) +%d", c.Revision, c.Type(), c.From, c.To, c.Inserted)
}

// changesOf extracts the changes of a transaction's steps.
func changesOf(rev RevisionID, tr *transform.Transaction) []Change {
	var out []Change
	for _, s := range tr.Steps() {
		for _, r := range s.Map().Ranges() {
			out = append(out, Change{Revision: rev, From: r.Start, To: r.Start + r.OldSize, Inserted: r.NewSize})
		}
	}
	return out
}

// ChangeSet is a sequence of changes with a summary.
type ChangeSet struct {
	Since   RevisionID
	Changes []Change
}

// TotalDelta returns the combined size change.
func (cs ChangeSet) TotalDelta() int {
	total := 0
	for _, c := range cs.Changes {
		total += c.Delta()
	}
	return total
}

// Summary returns a one-line description.
func (cs ChangeSet) Summary() string {
	var ins, del, rep int
	for _, c := range cs.Changes {
		switch c.Type() {
		case ChangeInsert:
			ins++
		case ChangeDelete:
			del++
		default:
			rep++
		}
	}
	return fmt.Sprintf("%d changes since r%d (%d inserts, %d deletes, %d replaces, delta %+d)",
		len(cs.Changes), cs.Since, ins, del, rep, cs.TotalDelta())
}
