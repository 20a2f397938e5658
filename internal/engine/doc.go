// Package engine provides the editor facade over the document model.
//
// The engine package combines the immutable document model, the
// transaction engine, selection maintenance, undo/redo history, the
// character limit, and change tracking behind one Editor.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - schema: node kinds and their content rules
//   - model: immutable nodes, fragments, slices and resolved positions
//   - transform: steps, position mapping and transactions
//   - cursor: selections and the selection maintainer
//   - history: undo/redo over inverted steps
//   - limit: character counting and the length limit
//   - tracking: revisions, fingerprints and diffs for observers
//
// # Committing Changes
//
// Every change is a transaction built on the current state:
//
//	ed, _ := engine.New()
//	st := ed.State()
//	tr := st.Tr().InsertText(1, "Hello").SetSelection(6, 6)
//	if err := ed.Dispatch(tr); err != nil {
//		// stale, failed, filtered or over the limit; nothing changed
//	}
//
// # Input Events
//
// Handle runs host events through the configured interceptors:
//
//	ed, _ := engine.New(engine.WithInterceptors(intercept.Chain(...)...))
//	ed.Handle(event.TextInput{Text: "a"})
//	ed.Handle(event.Key(key.MustParse("Backspace")))
//
// # Undo/Redo
//
//	ed.Undo()
//	ed.Redo()
package engine
