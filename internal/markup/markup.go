// Package markup converts documents to and from their serialized forms.
package markup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/markup/html"
	"github.com/jearn/composer/internal/markup/jsondoc"
	"github.com/jearn/composer/internal/markup/markdown"
	"github.com/jearn/composer/internal/markup/text"
)

// Format names a serialized document form.
type Format string

// Supported formats.
const (
	Text     Format = "text"
	HTML     Format = "html"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{Text, HTML, Markdown, JSON}

// ParseFormat resolves a format name. Empty means text; "md" is an alias
// of markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return Text, nil
	case "html":
		return HTML, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// FormatForPath picks a format from the file extension of path.
// Unknown extensions are text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return HTML
	case ".md", ".markdown":
		return Markdown
	case ".json":
		return JSON
	}
	return Text
}

// Decode parses src in format f.
func Decode(f Format, src string) (*model.Node, error) {
	switch f {
	case Text:
		return text.Parse(src), nil
	case HTML:
		return html.Parse(src)
	case Markdown:
		return markdown.Parse(src), nil
	case JSON:
		return jsondoc.Unmarshal([]byte(src))
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Encode serializes doc in format f. JSON is indented.
func Encode(f Format, doc *model.Node) (string, error) {
	switch f {
	case Text:
		return text.Render(doc), nil
	case HTML:
		return html.Serialize(doc)
	case Markdown:
		return markdown.Render(doc), nil
	case JSON:
		b, err := jsondoc.MarshalIndent(doc)
		return string(b), err
	}
	return "", fmt.Errorf("unknown format %q", f)
}
