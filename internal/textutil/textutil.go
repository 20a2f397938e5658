// Package textutil holds the rune and grapheme helpers shared by the
// editing packages.
package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ZeroWidthSpace is the placeholder text inserted after inline atoms.
const ZeroWidthSpace = "\u200b"

// IsZeroWidth reports whether r is one of U+200B..U+200D or U+FEFF.
func IsZeroWidth(r rune) bool {
	return (r >= '\u200b' && r <= '\u200d') || r == '\ufeff'
}

var stripZeroWidth = runes.Remove(runes.Predicate(IsZeroWidth))

// StripZeroWidth removes zero-width characters.
func StripZeroWidth(s string) string {
	if !strings.ContainsFunc(s, IsZeroWidth) {
		return s
	}
	out, _, err := transform.String(stripZeroWidth, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if IsZeroWidth(r) {
				return -1
			}
			return r
		}, s)
	}
	return out
}

// GraphemeCount returns the number of user-perceived characters.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// LastGrapheme returns the length in runes of the last grapheme cluster.
func LastGrapheme(s string) int {
	last := ""
	state := -1
	rest := s
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = cluster
	}
	return utf8.RuneCountInString(last)
}

// FirstGrapheme returns the length in runes of the first grapheme cluster.
func FirstGrapheme(s string) int {
	if s == "" {
		return 0
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return utf8.RuneCountInString(cluster)
}
