// Package intercept holds the editor's input interceptors: the key
// dispatch for Backspace, Delete and Enter, paste handling, and the
// hashtag trigger.
//
// Interceptors run in the order given to the editor; the first one that
// does not decline produces the transaction. Chain returns the standard
// order and Default the fallback that runs when every interceptor
// declined.
package intercept
