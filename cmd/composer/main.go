// Command composer replays event scripts against the editing engine and
// converts documents between markup formats.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/jearn/composer/internal/config"
	"github.com/jearn/composer/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Configuration file" type:"path" default:"composer.toml"`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`
	Color    string `name:"color" help:"Color output: auto, always or never" enum:"auto,always,never" default:"auto"`
}

// CLI defines the command-line interface.
var CLI struct {
	Globals

	Replay  ReplayCmd  `cmd:"" help:"Replay event scripts and check their expectations"`
	Watch   WatchCmd   `cmd:"" help:"Replay event scripts whenever they change"`
	Convert ConvertCmd `cmd:"" help:"Convert a document between formats"`
	Show    ShowCmd    `cmd:"" help:"Render a document for the terminal"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("composer"),
		kong.Description("Structured rich-text authoring engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads the configuration and builds the logger it asks for.
func (g *Globals) load() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: os.Stderr,
		Prefix: "composer",
	})
	return cfg, logger, nil
}

// colorOn reports whether output to f should be styled. NO_COLOR turns
// automatic coloring off.
func (g *Globals) colorOn(f *os.File) bool {
	switch g.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run prints the version.
func (c *VersionCmd) Run() error {
	fmt.Printf("composer %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Built: %s\n", date)
	return nil
}
