// Package history provides undo/redo for committed transactions.
//
// Every transaction that changes the document is recorded as an entry
// holding its steps, the inverse of each step and the selections before
// and after. Undo applies the inverted steps in reverse order and
// restores the earlier selection; redo re-applies the original steps.
//
// # History Stack
//
//	h := NewHistory(200, 300*time.Millisecond)
//	h.Record(tr, before, after)
//	undo, sel, err := h.Undo(doc)
//
// # Grouping
//
// Consecutive typing transactions that arrive within the group delay of
// each other merge into one entry, so one undo removes a burst of typing.
// Explicit groups combine everything recorded between BeginGroup and
// EndGroup:
//
//	h.BeginGroup("Paste")
//	// ... multiple commits ...
//	h.EndGroup()
//
// Transactions carrying the addToHistory=false meta are never recorded;
// the transactions returned by Undo and Redo carry it.
package history
