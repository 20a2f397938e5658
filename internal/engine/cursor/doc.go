// Package cursor provides selections and the selection invariant
// maintainer.
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// A text selection always has both endpoints in inline content. A node
// selection selects exactly one selectable atomic node (math, hashtag,
// code block) and is how atoms are highlighted and deleted as a unit.
//
// Maintainer:
//
// After every committed transaction the engine runs Maintainer.Normalize
// once. An endpoint that ended up between blocks is moved past an
// adjacent atom, then to the nearest inline position (forward first).
// When a document has no inline position at all, the maintainer asks for
// an empty placeholder paragraph after the atom:
//
//	sel, fix := cursor.NewMaintainer().Normalize(doc, sel)
//	if fix.Placeholder {
//		tr.Insert(fix.At, model.Paragraph())
//	}
//
// Selection is an immutable value type and safe for concurrent use.
package cursor
