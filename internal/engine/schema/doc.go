// Package schema declares the node kinds a document may contain.
//
// Each kind is described by a NodeType: whether it is a block or an inline
// unit, whether it is atomic (indivisible, one position wide, never entered
// by a cursor), which attributes it carries, and which children it accepts.
//
// A Registry is built once from a list of Specs and is read-only afterwards:
//
//	reg, err := schema.NewRegistry(schema.DefaultSpecs()...)
//	math, _ := reg.Lookup(schema.KindMath)
//	math.IsAtom()   // true
//	math.IsInline() // true
//
// Most callers use Default, the process-wide registry holding the kinds of
// the forum editor (paragraphs, headings, lists, quotes, code blocks, text,
// hard breaks, math, hashtags and mentions).
package schema
