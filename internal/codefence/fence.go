package codefence

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/markup/text"
	"github.com/jearn/composer/internal/textutil"
)

// State is the fence state of a block.
type State uint8

const (
	// Scanning blocks are ordinary paragraphs that may still hold fence text.
	Scanning State = iota
	// Promoted blocks are code block atoms.
	Promoted
)

// String returns the state name.
func (s State) String() string {
	if s == Promoted {
		return "promoted"
	}
	return "scanning"
}

// StateOf reports the fence state of n.
func StateOf(n *model.Node) State {
	if n.Is(schema.KindCodeBlock) {
		return Promoted
	}
	return Scanning
}

// Fence is the literal fence marker.
const Fence = "```"

// PlainLanguage is the language of code blocks without one.
const PlainLanguage = "text"

var openingFence = regexp.MustCompile("^```(\\w+)?$")

// ParseOpening reports whether line is an opening fence and returns its
// language, which is empty for a bare fence.
func ParseOpening(line string) (string, bool) {
	m := openingFence.FindStringSubmatch(clean(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsClosing reports whether line is a closing fence.
func IsClosing(line string) bool {
	return clean(line) == Fence
}

// clean drops zero-width characters and surrounding whitespace.
func clean(s string) string {
	return strings.TrimSpace(textutil.StripZeroWidth(s))
}

// rawText returns the text of a paragraph with hard breaks as newlines.
func rawText(n *model.Node) string {
	return n.TextBetween(0, n.Content().Size(), "\n", text.Leaf)
}

var codeReplacer = strings.NewReplacer("\r\n", "\n", "\u00a0", " ")

// NormalizeCode prepares code for reconstruction: CRLF becomes LF,
// non-breaking spaces become spaces and trailing whitespace is trimmed.
func NormalizeCode(code string) string {
	return strings.TrimRightFunc(codeReplacer.Replace(code), unicode.IsSpace)
}

// FenceLines returns the paragraph lines that reconstruct a code block,
// or nil when it holds no code.
func FenceLines(block *model.Node) []string {
	code := NormalizeCode(block.Attr(schema.AttrCode))
	if code == "" {
		return nil
	}
	lang := block.Attr(schema.AttrLanguage)
	if lang == PlainLanguage {
		lang = ""
	}
	lines := []string{Fence + lang}
	lines = append(lines, strings.Split(code, "\n")...)
	return append(lines, Fence)
}
