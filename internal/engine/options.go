package engine

import (
	"time"

	"github.com/jearn/composer/internal/engine/history"
	"github.com/jearn/composer/internal/engine/limit"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/tracking"
	"github.com/jearn/composer/internal/logging"
)

// Default configuration values.
const (
	DefaultMaxChars          = limit.DefaultMax
	DefaultHistoryDepth      = history.DefaultMaxEntries
	DefaultHistoryGroupDelay = history.DefaultGroupDelay
	DefaultMaxChanges        = tracking.DefaultMaxChanges
	DefaultMaxRevisions      = tracking.DefaultMaxRevisions
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithDoc sets the initial document. The default is one empty paragraph.
func WithDoc(doc *model.Node) Option {
	return func(e *Editor) {
		if doc != nil {
			e.initDoc = doc
		}
	}
}

// WithMaxChars sets the character limit. Zero or negative disables it.
func WithMaxChars(max int) Option {
	return func(e *Editor) {
		e.maxChars = max
	}
}

// WithHistory sets the undo depth and the typing group delay.
func WithHistory(depth int, groupDelay time.Duration) Option {
	return func(e *Editor) {
		if depth > 0 {
			e.historyDepth = depth
		}
		if groupDelay >= 0 {
			e.historyDelay = groupDelay
		}
	}
}

// WithMaxRevisions sets the maximum number of stored revisions.
func WithMaxRevisions(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxRevisions = max
		}
	}
}

// WithMaxChanges sets the maximum number of tracked changes.
func WithMaxChanges(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxChanges = max
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithInterceptors sets the ordered interceptor list consulted by Handle.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(e *Editor) {
		e.interceptors = append([]Interceptor(nil), interceptors...)
	}
}

// WithFallback sets the interceptor that runs when every other one
// declines. Without it only text input has a default behaviour.
func WithFallback(ic Interceptor) Option {
	return func(e *Editor) {
		e.fallback = ic
	}
}

// WithFilter adds a filter run before every commit.
func WithFilter(name string, f Filter) Option {
	return func(e *Editor) {
		e.filters = append(e.filters, namedFilter{name: name, fn: f})
	}
}

// WithAppender adds an appender run after every root commit.
func WithAppender(name string, a Appender) Option {
	return func(e *Editor) {
		e.appenders = append(e.appenders, namedAppender{name: name, fn: a})
	}
}
