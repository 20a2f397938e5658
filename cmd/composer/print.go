package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jearn/composer/internal/engine/tracking"
	"github.com/jearn/composer/internal/markup"
)

// printer reports replay outcomes.
type printer struct {
	w      io.Writer
	format markup.Format
	show   bool

	pass, fail, dim, added, removed func(a ...any) string
}

// newPrinter writes to w. A non-empty format also prints each final
// document in that format.
func newPrinter(w io.Writer, styled bool, format string) (*printer, error) {
	p := &printer{w: w}
	if format != "" {
		f, err := markup.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		p.format, p.show = f, true
	}
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if styled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	p.pass = mk(color.FgGreen, color.Bold)
	p.fail = mk(color.FgRed, color.Bold)
	p.dim = mk(color.Faint)
	p.added = mk(color.FgGreen)
	p.removed = mk(color.FgRed)
	return p, nil
}

func (p *printer) print(o *outcome) error {
	var b strings.Builder
	switch {
	case o.err != nil:
		fmt.Fprintf(&b, "%s %s: %v\n", p.fail("FAIL"), o.path, o.err)
	case len(o.mismatches) > 0:
		fmt.Fprintf(&b, "%s %s\n", p.fail("FAIL"), o.path)
		for _, m := range o.mismatches {
			fmt.Fprintf(&b, "  %s %s\n", m.Field, p.dim("(-want +got)"))
			p.diff(&b, m.Want, m.Got)
		}
	default:
		fmt.Fprintf(&b, "%s %s %s\n", p.pass("ok  "), o.path, p.dim(fmt.Sprintf("(%d steps)", len(o.script.Steps))))
	}
	if p.show && o.doc != nil {
		out, err := o.encode(p.format)
		if err != nil {
			return err
		}
		b.WriteString(out)
		if !strings.HasSuffix(out, "\n") {
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *printer) diff(b *strings.Builder, want, got string) {
	for _, l := range tracking.ComputeLineDiff(want, got).Lines {
		line := l.Type.String() + l.Text
		switch l.Type {
		case tracking.DiffInsert:
			line = p.added(line)
		case tracking.DiffDelete:
			line = p.removed(line)
		}
		b.WriteString("    " + line + "\n")
	}
}
