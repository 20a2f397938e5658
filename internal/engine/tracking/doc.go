// Package tracking records document revisions for change queries.
//
// Every committed transaction becomes a Revision holding the immutable
// document it produced and a BLAKE3 fingerprint of it. Because documents
// share untouched subtrees, keeping revisions is cheap. The tracker
// answers "what changed since revision X?" both as position changes
// derived from step maps and as a line diff of the rendered text:
//
//	tracker := tracking.NewTracker()
//	rev := tracker.Record(tr)
//	// ... later ...
//	diff, err := tracker.DiffSince(rev)
//	fmt.Print(diff.Unified())
//
// Named snapshots mark checkpoints such as "before paste".
//
// All Tracker operations are thread-safe through internal locking.
package tracking
