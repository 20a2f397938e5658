// Package transform turns document edits into first-class values.
//
// A Step is one atomic change to a document. Applying a step yields a new
// document and a StepMap describing how positions moved. A Transaction
// chains steps over a start document, composing their maps into a Mapping
// so positions taken before the transaction can be carried forward:
//
//	tr := transform.New(doc)
//	tr.Delete(from, to).InsertText(from, "x")
//	if err := tr.Err(); err != nil {
//		// nothing was applied
//	}
//	cursor := tr.Mapping().Map(oldCursor, 1)
//
// The first step that fails poisons the transaction: the failing step and
// every step after it are dropped, Err reports the cause and the engine
// refuses to commit the transaction.
package transform
