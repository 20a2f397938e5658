package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/jearn/composer/internal/codefence"
	"github.com/jearn/composer/internal/config"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/intercept"
	"github.com/jearn/composer/internal/input/keymap"
	"github.com/jearn/composer/internal/input/suggest"
	"github.com/jearn/composer/internal/logging"
	"github.com/jearn/composer/internal/plugin/lua"
	"github.com/jearn/composer/internal/render"
)

// userKeymap is the registry name of the [keymap] config section.
const userKeymap = "user"

// Session is one editing session: an editor, its keymaps and its Lua
// plugins. Rejected edits and empty history are not errors; they are
// logged at debug level.
type Session struct {
	id      uuid.UUID
	editor  *engine.Editor
	keys    *keymap.Registry
	plugins *lua.Host
	users   suggest.Directory
	logger  *logging.Logger

	mu     sync.RWMutex
	cfg    *config.Config
	closed bool
}

// Option configures a Session.
type Option func(*options)

type options struct {
	doc    *model.Node
	logger *logging.Logger
	users  suggest.Directory
	extra  []engine.Option
}

// WithDoc sets the starting document.
func WithDoc(doc *model.Node) Option {
	return func(o *options) { o.doc = doc }
}

// WithLogger sets the session logger. The default writes to stderr at
// the configured level.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDirectory sets the user directory mention suggestions search.
func WithDirectory(d suggest.Directory) Option {
	return func(o *options) { o.users = d }
}

// WithEngineOptions appends engine options after the configured ones.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) { o.extra = append(o.extra, opts...) }
}

// New starts a session. A nil cfg means the defaults.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	logger := o.logger
	if logger == nil {
		logger = logging.New(logging.Config{Level: cfg.LogLevel(), Output: os.Stderr, Prefix: "composer"})
	}
	logger = logger.WithField("session", id.String())

	keys := keymap.NewRegistry()
	if err := keymap.LoadDefaults(keys); err != nil {
		return nil, NewOperationError("load", "keymap", err)
	}
	if err := applyKeymap(keys, cfg); err != nil {
		return nil, NewOperationError("load", "keymap", err)
	}

	host, err := lua.Load(cfg.ScriptPaths(), lua.WithLogger(logger))
	if err != nil {
		return nil, NewOperationError("load", "plugins", err)
	}

	engineOpts := append(codefence.Options(), cfg.EngineOptions()...)
	engineOpts = append(engineOpts,
		engine.WithLogger(logger.WithComponent("engine")),
		engine.WithInterceptors(intercept.Chain(keys, host.Interceptors()...)...),
		engine.WithFallback(intercept.Default()),
	)
	if o.doc != nil {
		engineOpts = append(engineOpts, engine.WithDoc(o.doc))
	}
	ed, err := engine.New(append(engineOpts, o.extra...)...)
	if err != nil {
		_ = host.Close()
		return nil, NewOperationError("create", "editor", err)
	}

	logger.Debug("session started with %d plugin(s)", len(host.Scripts()))
	return &Session{
		id:      id,
		editor:  ed,
		keys:    keys,
		plugins: host,
		users:   o.users,
		logger:  logger,
		cfg:     cfg,
	}, nil
}

func applyKeymap(keys *keymap.Registry, cfg *config.Config) error {
	keys.Unregister(userKeymap)
	if len(cfg.Keymap) == 0 {
		return nil
	}
	return keys.Register(keymap.FromMap(userKeymap, cfg.Keymap).WithPriority(10))
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID { return s.id }

// Editor returns the underlying editor.
func (s *Session) Editor() *engine.Editor { return s.editor }

// Keymaps returns the session's keymap registry.
func (s *Session) Keymaps() *keymap.Registry { return s.keys }

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger { return s.logger }

// Doc returns the current document.
func (s *Session) Doc() *model.Node { return s.editor.Doc() }

// Selection returns the current selection.
func (s *Session) Selection() engine.Selection { return s.editor.Selection() }

// Config returns the settings in effect.
func (s *Session) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Handle feeds a host event to the session. History bindings run undo
// and redo; heading shortcuts for disabled levels are ignored.
func (s *Session) Handle(ev event.Event) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	if kev, ok := ev.(event.KeyEvent); ok {
		if b := s.keys.Lookup(kev.Event); b != nil {
			switch b.Action {
			case keymap.ActionUndo:
				return true, s.Undo()
			case keymap.ActionRedo:
				return true, s.Redo()
			}
			if !s.actionAllowed(b.Action) {
				return false, nil
			}
		}
	}
	handled, err := s.editor.Handle(ev)
	return handled, s.quiet(err)
}

// RunAction runs a keymap action by name and reports whether it applied.
func (s *Session) RunAction(name string) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	switch name {
	case keymap.ActionUndo:
		return s.history(s.editor.Undo)
	case keymap.ActionRedo:
		return s.history(s.editor.Redo)
	}
	if !s.actionAllowed(name) {
		return false, nil
	}
	cmd, ok := intercept.Action(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	applied, err := s.editor.Run(cmd)
	return applied, s.quiet(err)
}

// Run runs cmd against the editor.
func (s *Session) Run(cmd engine.Command) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	applied, err := s.editor.Run(cmd)
	return applied, s.quiet(err)
}

// SetSelection replaces the selection.
func (s *Session) SetSelection(sel engine.Selection) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.editor.SetSelection(sel)
}

// Undo reverts the last change. An empty history is not an error.
func (s *Session) Undo() error {
	_, err := s.history(s.editor.Undo)
	return err
}

// Redo re-applies the last undone change. An empty history is not an
// error.
func (s *Session) Redo() error {
	_, err := s.history(s.editor.Redo)
	return err
}

// Group records every change made until end is called as one undo
// entry.
func (s *Session) Group(name string) (end func()) {
	return s.editor.History().GroupScope(name).End
}

func (s *Session) history(fn func() error) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	err := fn()
	if errors.Is(err, engine.ErrNothingToUndo) || errors.Is(err, engine.ErrNothingToRedo) {
		s.logger.Debug("%v", err)
		return false, nil
	}
	return err == nil, err
}

// Suggest returns mention candidates for the "@query" before the cursor.
func (s *Session) Suggest(ctx context.Context, limit int) (suggest.Query, []suggest.User, error) {
	if s.users == nil {
		return suggest.Query{}, nil, ErrNoDirectory
	}
	return suggest.Suggest(ctx, s.users, s.editor.State(), limit)
}

// ChooseMention replaces the query with a mention of u.
func (s *Session) ChooseMention(q suggest.Query, u suggest.User) (bool, error) {
	return s.Run(suggest.Choose(q, u))
}

// Surface returns a render surface bound to the session's editor.
func (s *Session) Surface(opts ...render.SurfaceOption) *render.Surface {
	return render.NewSurface(s.editor, append([]render.SurfaceOption{render.WithLogger(s.logger)}, opts...)...)
}

// Reconfigure applies reloaded settings. Keymap overrides, heading
// levels and the log level take effect at once; editor limits and
// plugins apply to new sessions.
func (s *Session) Reconfigure(cfg *config.Config) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := applyKeymap(s.keys, cfg); err != nil {
		return NewOperationError("reload", "keymap", err)
	}
	s.logger.SetLevel(cfg.LogLevel())

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.logger.Info("settings applied")
	return nil
}

// Close releases the session's plugins. Later calls return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.plugins.Close()
}

func (s *Session) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// actionAllowed reports false for heading actions at disabled levels.
func (s *Session) actionAllowed(action string) bool {
	level, ok := keymap.HeadingLevel(action)
	if !ok || s.Config().HeadingAllowed(level) {
		return true
	}
	s.logger.Debug("heading level %d is disabled", level)
	return false
}

// quiet drops the errors of edits the editor rejected by policy.
func (s *Session) quiet(err error) error {
	if errors.Is(err, engine.ErrCharLimit) || errors.Is(err, engine.ErrRejected) {
		s.logger.Debug("%v", err)
		return nil
	}
	return err
}
