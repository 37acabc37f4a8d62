// Package cells is the custom cell protocol: a registry of renderers, each
// matching one payload kind, that draw custom cells on a canvas and render
// them as text. Editable kinds also register an editor provider that opens
// an overlay for the cell.
package cells

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	"github.com/mesh-intelligence/griddle/internal/canvas"
	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Registry errors.
var (
	ErrDuplicateKind = errors.New("renderer already registered for kind")
	ErrNilRenderer   = errors.New("renderer is nil")
)

// DefaultGutter keeps the grid lines visible around custom paint.
const DefaultGutter = 1

// Images resolves avatar URLs without blocking. A miss records the cell so
// it is redrawn when the image arrives.
type Images interface {
	LoadOrGet(url string, at types.Item) (image.Image, bool)
}

// DrawArgs is everything a renderer gets for one cell.
type DrawArgs struct {
	Canvas canvas.Canvas
	Theme  theme.Theme
	Rect   types.Rect
	Fill   color.Color
	Item   types.Item
	Images Images
}

// Renderer draws one custom payload kind.
type Renderer interface {
	Kind() types.CustomKind
	IsMatch(cell types.CustomCell) bool
	Draw(args DrawArgs, cell types.CustomCell)
	// Text renders the cell into at most width terminal columns.
	Text(cell types.CustomCell, width int) string
}

// EditorProvider opens an overlay for a custom cell. It returns false when
// the cell cannot be edited.
type EditorProvider interface {
	Editor(cell types.CustomCell, rowID int, columnID string) (overlay.Overlay, bool)
}

type descriptor struct {
	renderer Renderer
	editor   EditorProvider
}

// Registry holds the registered renderers in registration order.
type Registry struct {
	descriptors []descriptor
	gutter      float64
	logger      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithGutter sets the border gutter left unpainted around each custom cell.
func WithGutter(px float64) Option {
	return func(r *Registry) { r.gutter = px }
}

// WithLogger sets the logger used for unmatched cells.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		gutter: DefaultGutter,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a renderer and an optional editor provider.
// Returns ErrDuplicateKind if a renderer for the same kind exists.
func (r *Registry) Register(rd Renderer, editor EditorProvider) error {
	if rd == nil {
		return ErrNilRenderer
	}
	for _, d := range r.descriptors {
		if d.renderer.Kind() == rd.Kind() {
			return fmt.Errorf("register %s: %w", rd.Kind(), ErrDuplicateKind)
		}
	}
	r.descriptors = append(r.descriptors, descriptor{renderer: rd, editor: editor})
	return nil
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []types.CustomKind {
	out := make([]types.CustomKind, len(r.descriptors))
	for i, d := range r.descriptors {
		out[i] = d.renderer.Kind()
	}
	return out
}

func (r *Registry) lookup(cell types.CustomCell) (descriptor, bool) {
	for _, d := range r.descriptors {
		if d.renderer.IsMatch(cell) {
			return d, true
		}
	}
	return descriptor{}, false
}

// Lookup returns the renderer matching cell.
func (r *Registry) Lookup(cell types.CustomCell) (Renderer, bool) {
	d, ok := r.lookup(cell)
	return d.renderer, ok
}

// Draw paints the cell background inside the gutter and hands the cell to
// its renderer. With no matching renderer a placeholder is drawn and Draw
// returns false.
func (r *Registry) Draw(args DrawArgs, cell types.CustomCell) bool {
	if args.Fill != nil {
		args.Canvas.FillRect(args.Rect.Inset(r.gutter), args.Fill)
	}
	d, ok := r.lookup(cell)
	if !ok {
		r.logger.Debug("no renderer for custom cell", "col", args.Item.Col, "row", args.Item.Row)
		drawPlaceholder(args)
		return false
	}
	d.renderer.Draw(args, cell)
	return true
}

// Text renders cell as text for a terminal surface. Unmatched cells fall
// back to their display string.
func (r *Registry) Text(cell types.CustomCell, width int) string {
	d, ok := r.lookup(cell)
	if !ok {
		return truncate(cell.Display, width)
	}
	return d.renderer.Text(cell, width)
}

// Editor opens an overlay for cell. It returns ErrNoEditor when the cell's
// renderer has no editor provider or the provider declines the cell.
func (r *Registry) Editor(cell types.CustomCell, rowID int, columnID string) (overlay.Overlay, error) {
	d, ok := r.lookup(cell)
	if ok && d.editor != nil {
		if o, ok := d.editor.Editor(cell, rowID, columnID); ok {
			return o, nil
		}
	}
	return nil, fmt.Errorf("edit %s row %d: %w", columnID, rowID, types.ErrNoEditor)
}

// drawPlaceholder marks a cell nothing could draw with a short muted bar.
func drawPlaceholder(args DrawArgs) {
	th := args.Theme
	h := 6.0
	w := min(args.Rect.Width/3, 48)
	if w <= 0 {
		return
	}
	bar := types.Rect{
		X:      args.Rect.X + th.CellHorizontalPadding,
		Y:      args.Rect.CenterY() - h/2,
		Width:  w,
		Height: h,
	}
	args.Canvas.FillRoundRect(bar, h/2, theme.Color(th.BgBubble, color.Gray{Y: 0xe5}))
}

// middle returns the baseline that vertically centres text of font f in r.
func middle(r types.Rect, f canvas.Font) float64 {
	return r.CenterY() + f.Size*0.35
}
