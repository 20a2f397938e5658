package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/config/loader"
	"github.com/jearn/composer/internal/config/watcher"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/input/keymap"
	"github.com/jearn/composer/internal/logging"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "composer.toml"

// Config holds every composer setting.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`

	// Keymap maps key specs such as "Mod-Alt-1" to action names. Entries
	// override the default bindings.
	Keymap map[string]string `toml:"keymap"`

	Plugins PluginConfig `toml:"plugins"`
}

// EditorConfig configures the editing engine.
type EditorConfig struct {
	// MaxChars is the character limit. Zero disables it.
	MaxChars int `toml:"max_chars"`

	// HistoryDepth is the number of undo steps kept.
	HistoryDepth int `toml:"history_depth"`

	// HistoryGroupDelay groups edits closer together than this into one
	// undo step.
	HistoryGroupDelay Duration `toml:"history_group_delay"`

	// HeadingLevels lists the heading levels the heading shortcuts may
	// produce.
	HeadingLevels []int `toml:"heading_levels"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// PluginConfig configures Lua interceptors.
type PluginConfig struct {
	Enabled bool `toml:"enabled"`

	// Dir is the base directory of relative script paths.
	Dir string `toml:"dir"`

	Scripts []string `toml:"scripts"`
}

// Duration is a time.Duration written as a string such as "300ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxChars:          20000,
			HistoryDepth:      200,
			HistoryGroupDelay: Duration(300 * time.Millisecond),
			HeadingLevels:     []int{1, 2, 3},
		},
		Log:     LogConfig{Level: "info"},
		Keymap:  map[string]string{},
		Plugins: PluginConfig{Enabled: true},
	}
}

// Load reads path and COMPOSER_ environment variables over the
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadWith(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.EnvPrefix))
}

// LoadWith merges the sources in order over the defaults, then decodes
// and validates the result.
func LoadWith(sources ...loader.Loader) (*Config, error) {
	var merged map[string]any
	for _, src := range sources {
		data, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}
	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode fills a default Config from a settings map. Unknown keys are
// rejected.
func Decode(data map[string]any) (*Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}
	raw, err := toml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if editor, ok := data["editor"].(map[string]any); ok {
		if _, ok := editor["heading_levels"]; ok {
			cfg.Editor.HeadingLevels = nil
		}
	}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Editor.MaxChars < 0 {
		errs.add("editor.max_chars", "must not be negative", c.Editor.MaxChars)
	}
	if c.Editor.HistoryDepth < 0 {
		errs.add("editor.history_depth", "must not be negative", c.Editor.HistoryDepth)
	}
	if c.Editor.HistoryGroupDelay < 0 {
		errs.add("editor.history_group_delay", "must not be negative", c.Editor.HistoryGroupDelay.Std().String())
	}
	for _, level := range c.Editor.HeadingLevels {
		if level < 1 || level > commands.MaxHeadingLevel {
			errs.add("editor.heading_levels", fmt.Sprintf("level must be between 1 and %d", commands.MaxHeadingLevel), level)
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs.add("log.level", "unknown level", c.Log.Level)
	}

	if err := keymap.FromMap("user", c.Keymap).Validate(); err != nil {
		errs.add("keymap", err.Error(), nil)
	}

	for i, script := range c.Plugins.Scripts {
		if strings.TrimSpace(script) == "" {
			errs.add(fmt.Sprintf("plugins.scripts[%d]", i), "empty path", script)
		}
	}

	if len(errs.Errors) == 0 {
		return nil
	}
	return errs
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() logging.LogLevel {
	return logging.ParseLogLevel(c.Log.Level)
}

// HeadingAllowed reports whether the heading shortcuts may produce level.
func (c *Config) HeadingAllowed(level int) bool {
	for _, l := range c.Editor.HeadingLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ScriptPaths returns the plugin scripts resolved against Plugins.Dir.
// It is empty when plugins are disabled.
func (c *Config) ScriptPaths() []string {
	if !c.Plugins.Enabled {
		return nil
	}
	paths := make([]string, 0, len(c.Plugins.Scripts))
	for _, script := range c.Plugins.Scripts {
		if c.Plugins.Dir != "" && !filepath.IsAbs(script) {
			script = filepath.Join(c.Plugins.Dir, script)
		}
		paths = append(paths, script)
	}
	return paths
}

// EngineOptions returns the engine options the editor settings imply.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMaxChars(c.Editor.MaxChars),
		engine.WithHistory(c.Editor.HistoryDepth, c.Editor.HistoryGroupDelay.Std()),
	}
}

// Watch reloads path whenever it changes and passes the new settings to
// onReload. Reload failures are logged and the previous settings stay
// in effect. The caller closes the returned watcher.
func Watch(path string, logger *logging.Logger, onReload func(*Config)) (*watcher.Watcher, error) {
	if logger == nil {
		logger = logging.Null
	}
	logger = logger.WithComponent("config")

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		logger.Warn("watch error: %v", err)
	}))
	if err != nil {
		return nil, err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			logger.Warn("config file %s: %s, keeping current settings", ev.Path, ev.Op)
			return
		}
		cfg, err := Load(path)
		if err != nil {
			logger.Warn("config reload failed: %v", err)
			return
		}
		logger.Info("config reloaded from %s", ev.Path)
		onReload(cfg)
	})
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
