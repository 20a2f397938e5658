package lua

import (
	"errors"

	"github.com/jearn/composer/internal/engine"
)

// Host owns the loaded scripts of an editing session.
type Host struct {
	scripts []*Script
}

// Load loads every script in order. If one fails, the scripts loaded so
// far are closed and the error returned.
func Load(paths []string, opts ...Option) (*Host, error) {
	h := &Host{}
	for _, path := range paths {
		s, err := LoadFile(path, opts...)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.scripts = append(h.scripts, s)
	}
	return h, nil
}

// Scripts returns the loaded scripts.
func (h *Host) Scripts() []*Script {
	return h.scripts
}

// Interceptors returns the scripts as interceptors, in load order.
func (h *Host) Interceptors() []engine.Interceptor {
	out := make([]engine.Interceptor, len(h.scripts))
	for i, s := range h.scripts {
		out[i] = s
	}
	return out
}

// Close closes every script.
func (h *Host) Close() error {
	var errs []error
	for _, s := range h.scripts {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.scripts = nil
	return errors.Join(errs...)
}
