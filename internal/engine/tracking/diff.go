package tracking

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffType represents the type of a diff line.
type DiffType uint8

const (
	// DiffEqual is an unchanged line.
	DiffEqual DiffType = iota
	// DiffInsert is an added line.
	DiffInsert
	// DiffDelete is a removed line.
	DiffDelete
)

// String returns the unified-diff prefix of the type.
func (dt DiffType) String() string {
	switch dt {
	case DiffInsert:
		return "+"
	case DiffDelete:
		return "-"
	default:
		return " "
	}
}

// LineDiff is one line of a diff.
type LineDiff struct {
	Type DiffType
	Text string
}

// DiffResult holds a line diff between two renderings.
type DiffResult struct {
	Lines []LineDiff
}

// HasChanges returns true if any line was inserted or deleted.
func (dr DiffResult) HasChanges() bool {
	for _, l := range dr.Lines {
		if l.Type != DiffEqual {
			return true
		}
	}
	return false
}

// InsertedLines returns the number of inserted lines.
func (dr DiffResult) InsertedLines() int {
	return dr.count(DiffInsert)
}

// DeletedLines returns the number of deleted lines.
func (dr DiffResult) DeletedLines() int {
	return dr.count(DiffDelete)
}

func (dr DiffResult) count(dt DiffType) int {
	n := 0
	for _, l := range dr.Lines {
		if l.Type == dt {
			n++
		}
	}
	return n
}

// Unified renders the diff with "+", "-" and " " prefixes.
func (dr DiffResult) Unified() string {
	var b strings.Builder
	for _, l := range dr.Lines {
		b.WriteString(l.Type.String())
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// ComputeLineDiff diffs two texts line by line.
func ComputeLineDiff(oldText, newText string) DiffResult {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(withNewline(oldText), withNewline(newText))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var result DiffResult
	for _, d := range diffs {
		dt := DiffEqual
		switch d.Type {
		case diffpatch.DiffInsert:
			dt = DiffInsert
		case diffpatch.DiffDelete:
			dt = DiffDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.Lines = append(result.Lines, LineDiff{Type: dt, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return result
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
