package suggest

import "errors"

// ErrNoQuery is returned by Suggest when no mention query precedes the
// cursor.
var ErrNoQuery = errors.New("suggest: no mention query at cursor")
