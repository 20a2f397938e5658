package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jearn/composer/internal/engine/schema"
)

// MathFunc renders latex for display.
type MathFunc func(latex string) (string, error)

// HighlightFunc renders code for display.
type HighlightFunc func(language, code string) (string, error)

// Terminal renders views as styled text lines.
type Terminal struct {
	// Math renders math atoms. Nil or failing renders show raw latex.
	Math MathFunc

	// Highlight renders code blocks. Nil or failing highlights show the
	// code as is.
	Highlight HighlightFunc

	// Color enables ANSI styling.
	Color bool
}

type palette struct {
	heading, tag, mention, math, fence, quote func(a ...any) string
}

func (t *Terminal) palette() palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if t.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		heading: mk(color.Bold),
		tag:     mk(color.FgCyan),
		mention: mk(color.FgBlue, color.Bold),
		math:    mk(color.FgYellow),
		fence:   mk(color.Faint),
		quote:   mk(color.FgGreen),
	}
}

// Render writes the views, one line per textblock line.
func (t *Terminal) Render(w io.Writer, views []View) error {
	for _, line := range t.Lines(views) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Lines returns the rendered lines of views.
func (t *Terminal) Lines(views []View) []string {
	return t.blocks(t.palette(), views)
}

func (t *Terminal) block(p palette, v View) []string {
	switch v.Kind {
	case schema.KindParagraph:
		return strings.Split(t.inline(p, v.Children), "\n")
	case schema.KindHeading:
		level := max(v.Attrs.Int(schema.AttrLevel), 1)
		lines := strings.Split(t.inline(p, v.Children), "\n")
		for i, line := range lines {
			lines[i] = p.heading(strings.Repeat("#", level) + " " + line)
		}
		return lines
	case schema.KindBulletList:
		var lines []string
		for _, item := range v.Children {
			for i, line := range t.blocks(p, item.Children) {
				if i == 0 {
					lines = append(lines, "• "+line)
				} else {
					lines = append(lines, "  "+line)
				}
			}
		}
		return lines
	case schema.KindBlockquote:
		lines := t.blocks(p, v.Children)
		for i, line := range lines {
			lines[i] = p.quote("│ ") + line
		}
		return lines
	case schema.KindCodeBlock:
		return t.code(p, v)
	default:
		return t.blocks(p, v.Children)
	}
}

func (t *Terminal) blocks(p palette, views []View) []string {
	var lines []string
	for _, v := range views {
		lines = append(lines, t.block(p, v)...)
	}
	return lines
}

// code renders a code block. The stored code is never replaced by the
// highlighted form.
func (t *Terminal) code(p palette, v View) []string {
	lang := v.Attr(schema.AttrLanguage)
	code := v.Attr(schema.AttrCode)
	shown := code
	if t.Highlight != nil {
		if out, err := t.Highlight(lang, code); err == nil {
			shown = out
		}
	}
	header := "```"
	if lang != "" && lang != "text" {
		header += lang
	}
	lines := []string{p.fence(header)}
	lines = append(lines, strings.Split(shown, "\n")...)
	return append(lines, p.fence("```"))
}

func (t *Terminal) inline(p palette, views []View) string {
	var b strings.Builder
	for _, v := range views {
		switch v.Kind {
		case schema.KindText:
			b.WriteString(v.Text)
		case schema.KindHardBreak:
			b.WriteByte('\n')
		case schema.KindMath:
			b.WriteString(p.math(t.math(v.Attr(schema.AttrLatex))))
		case schema.KindTag:
			b.WriteString(p.tag("#" + v.Attr(schema.AttrValue)))
		case schema.KindMention:
			b.WriteString(p.mention("@" + v.Attr(schema.AttrDisplayID)))
		}
	}
	return b.String()
}

// math renders latex, falling back to the raw source.
func (t *Terminal) math(latex string) string {
	if t.Math == nil {
		return latex
	}
	out, err := t.Math(latex)
	if err != nil {
		return latex
	}
	return out
}
