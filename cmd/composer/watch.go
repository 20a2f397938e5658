package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/jearn/composer/internal/config"
	"github.com/jearn/composer/internal/config/watcher"
)

// WatchCmd replays scripts on every change. Configuration changes apply
// to the next replay.
type WatchCmd struct {
	Scripts  []string      `arg:"" help:"Script files" type:"existingfile"`
	Format   string        `short:"f" help:"Print the final document as text, html, markdown or json"`
	Timeout  time.Duration `help:"Time limit per script" default:"10s"`
	Debounce time.Duration `help:"Quiet period before a changed script is replayed" default:"100ms"`
}

// Run replays the scripts once, then again whenever one changes, until
// interrupted.
func (c *WatchCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	p, err := newPrinter(os.Stdout, g.colorOn(os.Stdout), c.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	r := &replayer{cfg: cfg, logger: logger, timeout: c.Timeout}
	replay := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if err := p.print(r.replay(ctx, path)); err != nil {
			logger.Error("print: %v", err)
		}
	}

	cw, err := config.Watch(g.Config, logger, func(next *config.Config) {
		mu.Lock()
		defer mu.Unlock()
		r.cfg = next
		logger.SetLevel(next.LogLevel())
	})
	if err != nil {
		return err
	}
	defer cw.Close()

	w, err := watcher.New(
		watcher.WithDebounce(c.Debounce),
		watcher.WithErrorHandler(func(err error) {
			logger.Warn("watch error: %v", err)
		}),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	byPath := make(map[string]string, len(c.Scripts))
	for _, path := range c.Scripts {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		byPath[abs] = path
		if err := w.Watch(path); err != nil {
			return err
		}
		replay(path)
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			logger.Warn("script %s: %s", ev.Path, ev.Op)
			return
		}
		path, ok := byPath[ev.Path]
		if !ok {
			path = ev.Path
		}
		replay(path)
	})

	logger.Info("watching %d scripts", len(c.Scripts))
	<-ctx.Done()
	return nil
}
