package keymap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jearn/composer/internal/input/key"
)

// Registry manages all keymaps and provides binding lookup.
type Registry struct {
	mu sync.RWMutex

	// keymaps holds all registered keymaps by name.
	keymaps map[string]*registered

	// index maps a canonical chord to the bindings for it.
	index map[string][]entry

	seq int
}

type registered struct {
	*ParsedKeymap
	seq int
}

type entry struct {
	binding *ParsedBinding
	keymap  *registered
}

// NewRegistry creates a new keymap registry.
func NewRegistry() *Registry {
	return &Registry{
		keymaps: make(map[string]*registered),
		index:   make(map[string][]entry),
	}
}

// Register adds a keymap to the registry.
// If a keymap with the same name already exists, it is replaced.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return fmt.Errorf("cannot register nil keymap")
	}

	parsed, err := km.Parse()
	if err != nil {
		return fmt.Errorf("parsing keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.unregisterLocked(km.Name)

	r.seq++
	reg := &registered{ParsedKeymap: parsed, seq: r.seq}
	r.keymaps[km.Name] = reg

	for i := range parsed.ParsedBindings {
		pb := &parsed.ParsedBindings[i]
		chord := chordOf(pb.Event)
		r.index[chord] = append(r.index[chord], entry{binding: pb, keymap: reg})
	}

	return nil
}

// Unregister removes a keymap from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unregisterLocked(name)
}

// unregisterLocked removes a keymap without acquiring the lock.
// Caller must hold the write lock.
func (r *Registry) unregisterLocked(name string) {
	km, ok := r.keymaps[name]
	if !ok {
		return
	}

	for chord, entries := range r.index {
		kept := entries[:0]
		for _, e := range entries {
			if e.keymap != km {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(r.index, chord)
		} else {
			r.index[chord] = kept
		}
	}

	delete(r.keymaps, name)
}

// Get returns a keymap by name.
func (r *Registry) Get(name string) *ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if km, ok := r.keymaps[name]; ok {
		return km.ParsedKeymap
	}
	return nil
}

// Lookup finds the best matching binding for a key event.
func (r *Registry) Lookup(ev key.Event) *Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.index[chordOf(ev)]
	if len(entries) == 0 {
		return nil
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if outranks(e, best) {
			best = e
		}
	}
	b := best.binding.Binding
	return &b
}

// BindingsFor returns the effective bindings for action, sorted by keys.
func (r *Registry) BindingsFor(action string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []entry
	for _, entries := range r.index {
		for _, e := range entries {
			if e.binding.Action == action && r.effective(e) {
				matches = append(matches, e)
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].binding.Keys < matches[j].binding.Keys
	})

	result := make([]Binding, len(matches))
	for i, m := range matches {
		result[i] = m.binding.Binding
	}
	return result
}

// effective reports whether e is the binding Lookup returns for its chord.
func (r *Registry) effective(e entry) bool {
	for _, other := range r.index[chordOf(e.binding.Event)] {
		if outranks(other, e) {
			return false
		}
	}
	return true
}

// Keymaps returns all registered keymaps in registration order.
func (r *Registry) Keymaps() []*ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]*registered, 0, len(r.keymaps))
	for _, km := range r.keymaps {
		regs = append(regs, km)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].seq < regs[j].seq })

	result := make([]*ParsedKeymap, len(regs))
	for i, km := range regs {
		result[i] = km.ParsedKeymap
	}
	return result
}

// outranks reports whether a takes precedence over b: higher keymap
// priority first, then the later registration.
func outranks(a, b entry) bool {
	if a.keymap.Priority != b.keymap.Priority {
		return a.keymap.Priority > b.keymap.Priority
	}
	return a.keymap.seq > b.keymap.seq
}

func chordOf(ev key.Event) string {
	return ev.Normalize().String()
}
