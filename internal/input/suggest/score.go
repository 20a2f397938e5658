package suggest

import (
	"strings"
	"unicode"
)

// match is a scored candidate.
type match struct {
	user  User
	score int
}

// matchText finds query's runes in order in text and scores the match.
// It returns 0 when some rune is missing.
func matchText(query []rune, text string) int {
	if text == "" || len(query) == 0 {
		return 0
	}
	original := []rune(text)
	lowered := []rune(strings.ToLower(text))
	if len(lowered) != len(original) {
		lowered = original
	}

	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lowered) && qi < len(query); i++ {
		if lowered[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0
	}
	return score(query, original, lowered, matches)
}

// score favors consecutive runs, word starts, prefixes and short text,
// and penalizes gaps and late first matches.
func score(query, original, lowered []rune, matches []int) int {
	s := 100

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			s += 20
		}
	}
	for _, idx := range matches {
		if isWordBoundary(original, idx) {
			s += 15
		}
	}
	if matches[0] == 0 {
		s += 25
	}
	if len(matches) > 1 {
		if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
			s -= gap * 2
		}
	}
	s -= matches[0]
	if n := len(lowered); n < 20 {
		s += 20 - n
	}
	if len(lowered) >= len(query) && string(lowered[:len(query)]) == string(query) {
		s += 50
	}
	return max(s, 1)
}

func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
