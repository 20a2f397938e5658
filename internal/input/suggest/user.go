package suggest

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// User is a mention candidate.
type User struct {
	// UID is the stable user id stored in the mention.
	UID string

	// UniqueID is the handle displayed after "@".
	UniqueID string

	// Name is the display name used for matching.
	Name string
}

// Handle returns the unique id, or a handle derived from the name when
// the user has none.
func (u User) Handle() string {
	if strings.TrimSpace(u.UniqueID) != "" {
		return u.UniqueID
	}
	return strings.ToLower(spaceRun.ReplaceAllString(strings.TrimSpace(u.Name), "_"))
}
