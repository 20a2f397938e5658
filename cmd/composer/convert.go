package main

import (
	"io"
	"os"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/markup"
	"github.com/jearn/composer/internal/render"
)

// ConvertCmd converts a document between formats.
type ConvertCmd struct {
	Path string `arg:"" help:"Input document, or - for stdin"`
	From string `help:"Input format (default: from the file extension)"`
	To   string `short:"t" help:"Output format" required:""`
	Out  string `short:"o" help:"Output file (default: stdout)" type:"path"`
}

// Run converts the document.
func (c *ConvertCmd) Run() error {
	doc, err := readDoc(c.Path, c.From)
	if err != nil {
		return err
	}
	to, err := markup.ParseFormat(c.To)
	if err != nil {
		return err
	}
	out, err := markup.Encode(to, doc)
	if err != nil {
		return err
	}
	if c.Out == "" {
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	return os.WriteFile(c.Out, []byte(out), 0o644)
}

// ShowCmd renders a document for the terminal.
type ShowCmd struct {
	Path string `arg:"" help:"Document, or - for stdin"`
	From string `help:"Input format (default: from the file extension)"`
}

// Run renders the document to stdout.
func (c *ShowCmd) Run(g *Globals) error {
	doc, err := readDoc(c.Path, c.From)
	if err != nil {
		return err
	}
	t := &render.Terminal{Color: g.colorOn(os.Stdout)}
	return t.Render(os.Stdout, render.Build(doc))
}

// readDoc parses path, or stdin for "-". An empty format is picked from
// the extension.
func readDoc(path, format string) (*model.Node, error) {
	var (
		src []byte
		err error
	)
	if path == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	f := markup.FormatForPath(path)
	if format != "" {
		if f, err = markup.ParseFormat(format); err != nil {
			return nil, err
		}
	}
	return markup.Decode(f, string(src))
}
