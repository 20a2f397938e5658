package keymap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// FromMap builds a keymap from a key-spec to action table, the form of
// the [keymap] config section. Bindings are sorted by keys.
func FromMap(name string, bindings map[string]string) *Keymap {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	km := NewKeymap(name).WithSource("config")
	for _, k := range keys {
		km.Add(k, bindings[k])
	}
	return km
}

// Loader loads keymaps from TOML files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap from a TOML file.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f)
	if err != nil {
		return nil, err
	}
	if km.Name == "" {
		km.Name = filepath.Base(path)
	}
	if km.Source == "" {
		km.Source = path
	}
	return km, nil
}

// LoadReader loads a keymap from a reader.
//
//	name = "vimish"
//	priority = 5
//
//	[[bindings]]
//	keys = "C-h"
//	action = "backspace"
func (l *Loader) LoadReader(r io.Reader) (*Keymap, error) {
	var config keymapConfig
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}

	km := &Keymap{
		Name:     config.Name,
		Priority: config.Priority,
		Source:   config.Source,
		Bindings: config.Bindings,
	}
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("keymap %q: %w", km.Name, err)
	}
	return km, nil
}

// LoadAll loads all keymaps from the search paths. Files that fail to
// load are reported together after the rest were loaded.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
		if err != nil {
			continue
		}

		for _, path := range matches {
			km, err := l.LoadFile(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			keymaps = append(keymaps, km)
		}
	}

	if len(errs) > 0 {
		return keymaps, fmt.Errorf("loading keymaps: %v", errs)
	}
	return keymaps, nil
}

// LoadAndRegister loads all keymaps and registers them.
func (l *Loader) LoadAndRegister(r *Registry) error {
	keymaps, err := l.LoadAll()
	for _, km := range keymaps {
		if regErr := r.Register(km); regErr != nil {
			return fmt.Errorf("registering keymap %q: %w", km.Name, regErr)
		}
	}
	return err
}

type keymapConfig struct {
	Name     string    `toml:"name"`
	Priority int       `toml:"priority"`
	Source   string    `toml:"source"`
	Bindings []Binding `toml:"bindings"`
}
