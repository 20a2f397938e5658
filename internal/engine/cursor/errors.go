package cursor

import "errors"

// ErrInvalidSelection indicates a selection that does not fit its document.
var ErrInvalidSelection = errors.New("invalid selection")
