package canvas

import (
	"image"
	"image/color"

	"github.com/mattn/go-runewidth"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Op names recorded by Recorder.
const (
	OpFillRect       = "fill-rect"
	OpFillRoundRect  = "fill-round-rect"
	OpFillPolygon    = "fill-polygon"
	OpStrokePolyline = "stroke-polyline"
	OpImageCircle    = "image-circle"
	OpText           = "text"
)

// Op is one recorded drawing call.
type Op struct {
	Name   string
	Rect   types.Rect
	Points []types.Point
	Width  float64
	Radius float64
	Color  color.Color
	Text   string
	Font   Font
	Clip   types.Rect
}

// Recorder is a Canvas that logs every call instead of painting. Text width
// is estimated from the display width of the string, so layout code can be
// tested without fonts.
type Recorder struct {
	log  *[]Op
	clip types.Rect
}

// NewRecorder returns a recorder whose bounds are width x height.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		log:  new([]Op),
		clip: types.Rect{Width: width, Height: height},
	}
}

// Ops returns the calls recorded so far, including those made through clips.
func (r *Recorder) Ops() []Op { return *r.log }

// OpsNamed returns the recorded calls with the given name.
func (r *Recorder) OpsNamed(name string) []Op {
	var out []Op
	for _, op := range *r.log {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops the recorded calls.
func (r *Recorder) Reset() { *r.log = (*r.log)[:0] }

func (r *Recorder) add(op Op) {
	op.Clip = r.clip
	*r.log = append(*r.log, op)
}

// Bounds implements Canvas.
func (r *Recorder) Bounds() types.Rect { return r.clip }

// Clip implements Canvas.
func (r *Recorder) Clip(rect types.Rect) Canvas {
	return &Recorder{log: r.log, clip: intersect(r.clip, rect)}
}

// FillRect implements Canvas.
func (r *Recorder) FillRect(rect types.Rect, c color.Color) {
	r.add(Op{Name: OpFillRect, Rect: rect, Color: c})
}

// FillRoundRect implements Canvas.
func (r *Recorder) FillRoundRect(rect types.Rect, radius float64, c color.Color) {
	r.add(Op{Name: OpFillRoundRect, Rect: rect, Radius: radius, Color: c})
}

// FillPolygon implements Canvas.
func (r *Recorder) FillPolygon(pts []types.Point, c color.Color) {
	r.add(Op{Name: OpFillPolygon, Points: append([]types.Point(nil), pts...), Color: c})
}

// StrokePolyline implements Canvas.
func (r *Recorder) StrokePolyline(pts []types.Point, width float64, c color.Color) {
	r.add(Op{Name: OpStrokePolyline, Points: append([]types.Point(nil), pts...), Width: width, Color: c})
}

// DrawImageCircle implements Canvas.
func (r *Recorder) DrawImageCircle(_ image.Image, rect types.Rect) {
	r.add(Op{Name: OpImageCircle, Rect: rect})
}

// Text implements Canvas.
func (r *Recorder) Text(x, y float64, s string, f Font, c color.Color) {
	r.add(Op{
		Name:  OpText,
		Rect:  types.Rect{X: x, Y: y, Width: r.MeasureText(s, f)},
		Text:  s,
		Font:  f,
		Color: c,
	})
}

// MeasureText implements Canvas. Each display cell counts as 0.6 em.
func (r *Recorder) MeasureText(s string, f Font) float64 {
	return float64(runewidth.StringWidth(s)) * f.Size * 0.6
}

func intersect(a, b types.Rect) types.Rect {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return types.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

var (
	_ Canvas = (*Raster)(nil)
	_ Canvas = (*Recorder)(nil)
)
