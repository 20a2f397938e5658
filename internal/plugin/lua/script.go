package lua

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/transform"
	"github.com/jearn/composer/internal/input/event"
	"github.com/jearn/composer/internal/input/intercept"
	"github.com/jearn/composer/internal/logging"
)

const objectReplacement = "\ufffc"

// Script is a loaded Lua script. It implements engine.Interceptor.
type Script struct {
	name     string
	state    *State
	logger   *logging.Logger
	handlers map[event.Type]*lua.LFunction
}

// Option configures a Script.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	timeout time.Duration
}

// WithLogger sets the logger for handler failures and print output.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTimeout bounds script loading and every handler call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Null, timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadFile loads the script at path. The script is named after the file
// without its extension.
func LoadFile(path string, opts ...Option) (*Script, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := newScript(name, opts)
	if err := s.state.DoFile(path); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// LoadString loads a script from source.
func LoadString(name, source string, opts ...Option) (*Script, error) {
	s := newScript(name, opts)
	if err := s.state.DoString(source); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return s, nil
}

func newScript(name string, opts []Option) *Script {
	o := buildOptions(opts)
	s := &Script{
		name:     name,
		state:    NewState(WithExecutionTimeout(o.timeout)),
		logger:   o.logger.WithComponent("plugin").WithField("script", name),
		handlers: make(map[event.Type]*lua.LFunction),
	}
	s.state.RegisterModule("composer", map[string]lua.LGFunction{
		"on":  s.luaOn,
		"log": s.luaLog,
	})
	s.state.RegisterFunc("print", s.luaLog)
	return s
}

// luaOn implements composer.on(type, fn).
func (s *Script) luaOn(L *lua.LState) int {
	kind := L.CheckString(1)
	fn := L.CheckFunction(2)
	switch kind {
	case "key":
		s.handlers[event.TypeKey] = fn
	case "text":
		s.handlers[event.TypeText] = fn
	case "paste":
		s.handlers[event.TypePaste] = fn
	default:
		L.ArgError(1, fmt.Sprintf("unknown event type %q", kind))
	}
	return 0
}

// luaLog implements composer.log(...) and print(...).
func (s *Script) luaLog(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	s.logger.Info("%s", strings.Join(parts, " "))
	return 0
}

// Name implements engine.Interceptor.
func (s *Script) Name() string {
	return "lua:" + s.name
}

// Handles reports whether the script registered a handler for t.
func (s *Script) Handles(t event.Type) bool {
	_, ok := s.handlers[t]
	return ok
}

// Intercept implements engine.Interceptor. Handler errors are logged and
// the event declined.
func (s *Script) Intercept(st engine.State, ev event.Event) (*transform.Transaction, bool) {
	fn, ok := s.handlers[ev.Type()]
	if !ok {
		return nil, false
	}
	ret, err := s.state.Call(fn, ToLuaValue(s.state.L, eventTable(st, ev)))
	if err != nil {
		s.logger.Warn("%s handler failed: %v", ev.Type(), err)
		return nil, false
	}
	res, err := parseResult(ToGoValue(ret))
	if err != nil {
		s.logger.Warn("%s handler: %v", ev.Type(), err)
		return nil, false
	}
	if !res.handled {
		return nil, false
	}
	tr, ok, err := res.apply(st)
	if err != nil {
		s.logger.Warn("%s handler: %v", ev.Type(), err)
		return nil, false
	}
	return tr, ok
}

// Close releases the Lua state.
func (s *Script) Close() error {
	return s.state.Close()
}

// eventTable describes ev and the cursor context to a handler.
func eventTable(st engine.State, ev event.Event) map[string]any {
	t := map[string]any{
		"type":      ev.Type().String(),
		"collapsed": st.Selection.Empty(),
	}
	switch ev := ev.(type) {
	case event.KeyEvent:
		t["key"] = ev.Event.String()
	case event.TextInput:
		t["text"] = ev.Text
	case event.Paste:
		t["text"] = ev.Text
		t["html"] = ev.HTML
		t["markdown"] = ev.Markdown
	}
	if rp, err := st.Resolve(st.Selection.Head); err == nil && rp.InInline() {
		parent := rp.Parent()
		leaf := func(*model.Node) string { return objectReplacement }
		t["block"] = string(parent.Kind())
		t["before"] = parent.Content().TextBetween(0, rp.ParentOffset(), "", leaf)
		t["after"] = parent.Content().TextBetween(rp.ParentOffset(), parent.Content().Size(), "", leaf)
	}
	return t
}

type result struct {
	handled      bool
	deleteBefore int
	deleteAfter  int
	insert       string
	action       string
}

func parseResult(v any) (result, error) {
	switch v := v.(type) {
	case nil:
		return result{}, nil
	case bool:
		return result{handled: v}, nil
	case string:
		return result{handled: true, insert: v}, nil
	case map[string]any:
		res := result{handled: true}
		for key, val := range v {
			var ok bool
			switch key {
			case "delete_before":
				res.deleteBefore, ok = count(val)
			case "delete_after":
				res.deleteAfter, ok = count(val)
			case "insert":
				res.insert, ok = val.(string)
			case "action":
				res.action, ok = val.(string)
			}
			if !ok {
				return result{}, fmt.Errorf("%w: bad field %q", ErrBadResult, key)
			}
		}
		if res.action != "" && (res.insert != "" || res.deleteBefore > 0 || res.deleteAfter > 0) {
			return result{}, fmt.Errorf("%w: action cannot be combined with edits", ErrBadResult)
		}
		return res, nil
	default:
		return result{}, fmt.Errorf("%w: unexpected %T", ErrBadResult, v)
	}
}

func count(v any) (int, bool) {
	n, ok := v.(int64)
	return int(n), ok && n >= 0
}

// apply turns the result into a transaction. A result without edits
// swallows the event.
func (r result) apply(st engine.State) (*transform.Transaction, bool, error) {
	if r.action != "" {
		cmd, ok := intercept.Action(r.action)
		if !ok {
			return nil, false, fmt.Errorf("%w: unknown action %q", ErrBadResult, r.action)
		}
		tr, ok := cmd(st)
		return tr, ok, nil
	}
	if r.insert == "" && r.deleteBefore == 0 && r.deleteAfter == 0 {
		return nil, true, nil
	}

	if r.deleteBefore > 0 || r.deleteAfter > 0 {
		from, to, err := deletionRange(st, r.deleteBefore, r.deleteAfter)
		if err != nil {
			return nil, false, err
		}
		st.Selection = cursor.TextSelection(from, to)
	}

	var cmd engine.Command
	switch {
	case r.insert == "":
		cmd = commands.DeleteSelection
	case strings.Contains(r.insert, "\n"):
		cmd = commands.InsertParagraphs(strings.Split(r.insert, "\n"))
	default:
		cmd = commands.InsertText(r.insert)
	}
	tr, ok := cmd(st)
	return tr, ok, nil
}

// deletionRange extends a collapsed cursor by the given rune counts
// without leaving its block or crossing an inline node.
func deletionRange(st engine.State, before, after int) (int, int, error) {
	pos, ok := st.Cursor()
	if !ok {
		return 0, 0, fmt.Errorf("%w: deletion needs a collapsed cursor", ErrBadResult)
	}
	rp, err := st.Resolve(pos)
	if err != nil || !rp.InInline() {
		return 0, 0, fmt.Errorf("%w: cursor is not in a textblock", ErrBadResult)
	}
	start, end := rp.Start(rp.Depth()), rp.End(rp.Depth())
	from, to := pos-before, pos+after
	if from < start || to > end {
		return 0, 0, fmt.Errorf("%w: deletion leaves the block", ErrBadResult)
	}
	text := st.Doc.TextBetween(from, to, "", func(*model.Node) string { return objectReplacement })
	if utf8.RuneCountInString(text) != to-from || strings.Contains(text, objectReplacement) {
		return 0, 0, fmt.Errorf("%w: deletion crosses an inline node", ErrBadResult)
	}
	return from, to, nil
}
