package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/key"
	"github.com/jearn/composer/internal/markup"
)

// Script is a parsed event script.
type Script struct {
	Name   string  `yaml:"name"`
	Doc    Source  `yaml:"doc"`
	Steps  []Step  `yaml:"steps"`
	Expect *Expect `yaml:"expect"`

	// MaxChars overrides the configured character limit when set.
	MaxChars *int `yaml:"max_chars"`
}

// Source is a document in one of the markup formats.
type Source struct {
	// Format is "text", "html", "markdown" or "json". Empty means text.
	Format  string `yaml:"format"`
	Content string `yaml:"content"`
}

// Document parses the source.
func (s Source) Document() (*model.Node, error) {
	f, err := markup.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}
	return markup.Decode(f, s.Content)
}

// Expect is the outcome a replay is checked against. Empty fields are
// not checked.
type Expect struct {
	Text     string `yaml:"text"`
	HTML     string `yaml:"html"`
	Markdown string `yaml:"markdown"`
	JSON     string `yaml:"json"`

	// Selection is the expected anchor and head.
	Selection []int `yaml:"selection"`
}

// Step is one scripted action.
type Step struct {
	Type          string `yaml:"type"`
	Key           string `yaml:"key"`
	Paste         string `yaml:"paste"`
	PasteHTML     string `yaml:"paste_html"`
	PasteMarkdown string `yaml:"paste_markdown"`
	Select        []int  `yaml:"select"`
	SelectNode    *int   `yaml:"select_node"`
	Action        string `yaml:"action"`
	Undo          bool   `yaml:"undo"`
	Redo          bool   `yaml:"redo"`

	// Repeat runs the step this many times. Zero means once.
	Repeat int `yaml:"repeat"`
}

// Load reads the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse reads a script. Unknown fields and invalid steps are errors.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty script")
		}
		return nil, err
	}
	if _, err := markup.ParseFormat(s.Doc.Format); err != nil {
		return nil, fmt.Errorf("doc: %w", err)
	}
	if s.Expect != nil && len(s.Expect.Selection) > 2 {
		return nil, fmt.Errorf("expect: %w", ErrBadSelection)
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return nil, &StepError{Index: i, Step: step, Err: err}
		}
	}
	return &s, nil
}

// fields lists the action fields the step sets.
func (s Step) fields() []string {
	var set []string
	if s.Type != "" {
		set = append(set, "type")
	}
	if s.Key != "" {
		set = append(set, "key")
	}
	if s.Paste != "" {
		set = append(set, "paste")
	}
	if s.PasteHTML != "" {
		set = append(set, "paste_html")
	}
	if s.PasteMarkdown != "" {
		set = append(set, "paste_markdown")
	}
	if s.Select != nil {
		set = append(set, "select")
	}
	if s.SelectNode != nil {
		set = append(set, "select_node")
	}
	if s.Action != "" {
		set = append(set, "action")
	}
	if s.Undo {
		set = append(set, "undo")
	}
	if s.Redo {
		set = append(set, "redo")
	}
	return set
}

// Validate checks that the step sets exactly one action and that its
// key spec and selection parse.
func (s Step) Validate() error {
	switch set := s.fields(); len(set) {
	case 0:
		return ErrEmptyStep
	case 1:
	default:
		return fmt.Errorf("%w: %s", ErrAmbiguousStep, strings.Join(set, ", "))
	}
	if s.Repeat < 0 {
		return fmt.Errorf("negative repeat %d", s.Repeat)
	}
	if s.Key != "" {
		if _, err := key.Parse(s.Key); err != nil {
			return err
		}
	}
	if s.Select != nil && (len(s.Select) == 0 || len(s.Select) > 2) {
		return ErrBadSelection
	}
	return nil
}

// Times returns how often the step runs.
func (s Step) Times() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// Events returns the input events of a type, key or paste step. Typed
// newlines become Enter presses. Other steps have no events.
func (s Step) Events() []event.Event {
	switch {
	case s.Type != "":
		var evs []event.Event
		for _, r := range s.Type {
			if r == '\n' {
				evs = append(evs, event.Key(key.NewSpecialEvent(key.KeyEnter, key.ModNone)))
				continue
			}
			evs = append(evs, event.TextInput{Text: string(r)})
		}
		return evs
	case s.Key != "":
		return []event.Event{event.Key(key.MustParse(s.Key))}
	case s.Paste != "":
		return []event.Event{event.Paste{Text: s.Paste}}
	case s.PasteHTML != "":
		return []event.Event{event.Paste{HTML: s.PasteHTML}}
	case s.PasteMarkdown != "":
		return []event.Event{event.Paste{Markdown: s.PasteMarkdown}}
	}
	return nil
}

// Selection returns the selection of a select or select_node step.
func (s Step) Selection() (cursor.Selection, bool) {
	switch {
	case s.SelectNode != nil:
		return cursor.NodeSelection(*s.SelectNode), true
	case len(s.Select) == 1:
		return cursor.Cursor(s.Select[0]), true
	case len(s.Select) == 2:
		return cursor.TextSelection(s.Select[0], s.Select[1]), true
	}
	return cursor.Selection{}, false
}

// String describes the step.
func (s Step) String() string {
	var desc string
	switch {
	case s.Type != "":
		desc = fmt.Sprintf("type %q", s.Type)
	case s.Key != "":
		desc = "key " + s.Key
	case s.Paste != "":
		desc = fmt.Sprintf("paste %q", s.Paste)
	case s.PasteHTML != "":
		desc = "paste html"
	case s.PasteMarkdown != "":
		desc = "paste markdown"
	case s.Select != nil:
		desc = fmt.Sprintf("select %v", s.Select)
	case s.SelectNode != nil:
		desc = fmt.Sprintf("select node %d", *s.SelectNode)
	case s.Action != "":
		desc = "action " + s.Action
	case s.Undo:
		desc = "undo"
	case s.Redo:
		desc = "redo"
	default:
		desc = "empty"
	}
	if s.Repeat > 1 {
		desc += fmt.Sprintf(" x%d", s.Repeat)
	}
	return desc
}
