// Package suggest finds the "@query" being typed before the cursor and
// turns a chosen user into a mention.
//
// Lookup goes through a Directory. The in-memory directory scores users
// with a fuzzy matcher: consecutive characters, word starts and prefix
// matches rank higher, and results for repeated queries are cached.
//
//	q, ok := suggest.Detect(ed.State())
//	users, err := dir.Search(ctx, q.Text, 8)
//	ed.Run(suggest.Choose(q, users[0]))
package suggest
