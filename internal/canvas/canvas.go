// Package canvas is the drawing context cell renderers paint through.
//
// Renderers only see the Canvas interface. Raster paints onto an
// image.RGBA with anti-aliased vector fills and the Go fonts; Recorder keeps
// a log of calls for tests.
package canvas

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Canvas is a 2D drawing context. Coordinates are in pixels with the origin
// at the top-left of the whole surface, whatever clip is active.
type Canvas interface {
	// Bounds returns the drawable area, which is the active clip.
	Bounds() types.Rect

	// Clip returns a canvas that paints onto the same surface but discards
	// anything outside r.
	Clip(r types.Rect) Canvas

	FillRect(r types.Rect, c color.Color)
	FillRoundRect(r types.Rect, radius float64, c color.Color)
	FillPolygon(pts []types.Point, c color.Color)
	StrokePolyline(pts []types.Point, width float64, c color.Color)

	// DrawImageCircle scales img into r and masks it with the inscribed circle.
	DrawImageCircle(img image.Image, r types.Rect)

	// Text draws s with its baseline at y.
	Text(x, y float64, s string, f Font, c color.Color)

	// MeasureText returns the advance width of s.
	MeasureText(s string, f Font) float64
}

// Font describes a face by weight, pixel size and family list.
type Font struct {
	Weight int
	Size   float64
	Family string
}

// Bold reports whether the weight should use the bold face.
func (f Font) Bold() bool { return f.Weight >= 600 }

// Ascent approximates the distance from the top of a line box to the
// baseline, used to centre text vertically.
func (f Font) Ascent() float64 { return f.Size * 0.75 }

func (f Font) String() string {
	s := strconv.Itoa(f.Weight) + " " + strconv.FormatFloat(f.Size, 'f', -1, 64) + "px"
	if f.Family != "" {
		s += " " + f.Family
	}
	return s
}

// ParseFont reads a CSS-like descriptor such as "600 14px Inter, sans-serif".
// Missing parts default to weight 400 and size 13px.
func ParseFont(s string) Font {
	f := Font{Weight: 400, Size: 13}
	fields := strings.Fields(s)
	rest := fields[:0:0]
	for i, tok := range fields {
		if n, err := strconv.Atoi(tok); err == nil && i == 0 {
			f.Weight = n
			continue
		}
		if px, ok := strings.CutSuffix(tok, "px"); ok {
			if v, err := strconv.ParseFloat(px, 64); err == nil {
				f.Size = v
				continue
			}
		}
		switch tok {
		case "bold":
			f.Weight = 700
			continue
		case "normal":
			f.Weight = 400
			continue
		}
		rest = append(rest, tok)
	}
	f.Family = strings.Join(rest, " ")
	return f
}
