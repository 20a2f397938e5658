package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jearn/composer/internal/app"
	"github.com/jearn/composer/internal/config"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/logging"
	"github.com/jearn/composer/internal/markup"
	"github.com/jearn/composer/internal/script"
)

// ReplayCmd replays scripts once.
type ReplayCmd struct {
	Scripts []string      `arg:"" help:"Script files" type:"existingfile"`
	Format  string        `short:"f" help:"Print the final document as text, html, markdown or json"`
	Timeout time.Duration `help:"Time limit per script" default:"10s"`
}

// Run replays every script and fails if any of them did.
func (c *ReplayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	r := &replayer{cfg: cfg, logger: logger, timeout: c.Timeout}
	p, err := newPrinter(os.Stdout, g.colorOn(os.Stdout), c.Format)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range c.Scripts {
		res := r.replay(context.Background(), path)
		if !res.ok() {
			failed++
		}
		if err := p.print(res); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(c.Scripts))
	}
	return nil
}

// outcome is the result of replaying one script.
type outcome struct {
	path       string
	script     *script.Script
	doc        *model.Node
	sel        cursor.Selection
	mismatches []script.Mismatch
	err        error
}

func (o *outcome) ok() bool {
	return o.err == nil && len(o.mismatches) == 0
}

// replayer runs scripts against fresh sessions.
type replayer struct {
	cfg     *config.Config
	logger  *logging.Logger
	timeout time.Duration
}

func (r *replayer) replay(ctx context.Context, path string) *outcome {
	o := &outcome{path: path}
	o.err = r.run(ctx, o)
	return o
}

func (r *replayer) run(ctx context.Context, o *outcome) error {
	sc, err := script.Load(o.path)
	if err != nil {
		return err
	}
	o.script = sc

	doc, err := sc.Doc.Document()
	if err != nil {
		return fmt.Errorf("doc: %w", err)
	}
	cfg := *r.cfg
	if sc.MaxChars != nil {
		cfg.Editor.MaxChars = *sc.MaxChars
	}
	s, err := app.New(&cfg, app.WithDoc(doc), app.WithLogger(r.logger.WithField("script", scriptName(o.path, sc))))
	if err != nil {
		return err
	}
	defer s.Close()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	err = script.Replay(ctx, s, sc.Steps)
	o.doc, o.sel = s.Doc(), s.Selection()
	if err != nil {
		return err
	}
	o.mismatches, err = sc.Expect.Check(o.doc, o.sel)
	return err
}

func scriptName(path string, sc *script.Script) string {
	if sc.Name != "" {
		return sc.Name
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// encode serializes the final document of o.
func (o *outcome) encode(f markup.Format) (string, error) {
	if o.doc == nil {
		return "", nil
	}
	return markup.Encode(f, o.doc)
}
