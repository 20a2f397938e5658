// Package model provides the immutable document tree of the editor.
//
// A document is a tree of Nodes. Block nodes hold either inline content
// (textblocks such as paragraphs and headings) or nested blocks (lists,
// list items, quotes). Inline content is a sequence of text runs and inline
// leaves; atomic leaves (math, hashtags, mentions) and the atomic code block
// occupy exactly one position.
//
// # Positions
//
// Positions are integer offsets into a depth-first flattening of the tree.
// Entering or leaving a non-leaf node counts one position, every rune of a
// text run counts one position and every leaf counts one position:
//
//	doc( paragraph( "ab", math ) )
//	   0          1    2 3      4 5
//
// Position 1 is the start of the paragraph content, 3 sits between "ab" and
// the math atom, 4 is after the atom and 5 is after the paragraph.
//
// # Immutability
//
// Nodes and Fragments are never modified in place. Replace returns a new
// tree that shares every untouched subtree with the old one, so any number
// of document snapshots can be kept cheaply.
package model
