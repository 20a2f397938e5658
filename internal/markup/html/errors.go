package html

import "errors"

// ErrInvalidMarkup is returned when parsed markup does not form a valid
// document.
var ErrInvalidMarkup = errors.New("invalid markup")
