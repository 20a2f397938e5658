package render

import (
	"context"
	"time"

	"github.com/jearn/composer/internal/commands"
	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/model"
	"github.com/jearn/composer/internal/engine/schema"
	"github.com/jearn/composer/internal/logging"
)

// Handle is what a renderer may ask of the document for one node.
type Handle interface {
	// Select selects the node.
	Select() error

	// Delete removes the node.
	Delete() error

	// CopyText writes a math node's latex to the clipboard. The write
	// runs in the background; its failure is logged, not returned.
	CopyText(ctx context.Context) error
}

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(ctx context.Context, text string) error

// WriteText implements Clipboard.
func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Editor is the part of the editor handles act on.
type Editor interface {
	Doc() *model.Node
	Run(cmd engine.Command) (bool, error)
}

// Surface hands out handles bound to an editor.
type Surface struct {
	editor       Editor
	clipboard    Clipboard
	logger       *logging.Logger
	writeTimeout time.Duration
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithClipboard sets the clipboard used by CopyText.
func WithClipboard(c Clipboard) SurfaceOption {
	return func(s *Surface) { s.clipboard = c }
}

// WithLogger sets the logger for clipboard failures.
func WithLogger(l *logging.Logger) SurfaceOption {
	return func(s *Surface) { s.logger = l }
}

// WithWriteTimeout bounds each clipboard write.
func WithWriteTimeout(d time.Duration) SurfaceOption {
	return func(s *Surface) { s.writeTimeout = d }
}

// NewSurface returns a surface over ed.
func NewSurface(ed Editor, opts ...SurfaceOption) *Surface {
	s := &Surface{
		editor:       ed,
		logger:       logging.Null,
		writeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("render")
	return s
}

// Handle returns the handle of the node behind v.
func (s *Surface) Handle(v View) Handle {
	return &nodeHandle{surface: s, pos: v.Pos, node: v.node}
}

type nodeHandle struct {
	surface *Surface
	pos     int
	node    *model.Node
}

// current checks that the node is still where the view saw it.
func (h *nodeHandle) current() error {
	if h.node == nil {
		return ErrStale
	}
	n := h.surface.editor.Doc().NodeAt(h.pos)
	if n == nil || !n.Equal(h.node) {
		return ErrStale
	}
	return nil
}

func (h *nodeHandle) Select() error {
	if err := h.current(); err != nil {
		return err
	}
	ok, err := h.surface.editor.Run(commands.SelectNode(h.pos))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSelectable
	}
	return nil
}

// Delete removes the node without leaving fence text behind.
func (h *nodeHandle) Delete() error {
	if err := h.current(); err != nil {
		return err
	}
	ok, err := h.surface.editor.Run(commands.HardDelete(h.pos))
	if err != nil {
		return err
	}
	if !ok {
		return ErrStale
	}
	return nil
}

func (h *nodeHandle) CopyText(ctx context.Context) error {
	if h.node == nil || !h.node.Is(schema.KindMath) {
		return ErrNotCopyable
	}
	s := h.surface
	if s.clipboard == nil {
		return ErrNoClipboard
	}
	latex := h.node.Attr(schema.AttrLatex)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
		defer cancel()
		if err := s.clipboard.WriteText(ctx, latex); err != nil {
			s.logger.Warn("clipboard write failed: %v", err)
		}
	}()
	return nil
}
