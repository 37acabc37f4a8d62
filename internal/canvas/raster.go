package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Raster is a Canvas backed by an *image.RGBA.
type Raster struct {
	dst   *image.RGBA
	faces *faceCache
}

// NewRaster allocates a width x height surface.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new raster %dx%d: %w", width, height, ErrEmptySurface)
	}
	fc, err := newFaceCache()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	return &Raster{
		dst:   image.NewRGBA(image.Rect(0, 0, width, height)),
		faces: fc,
	}, nil
}

// Image returns the surface painted so far.
func (r *Raster) Image() *image.RGBA { return r.dst }

// Bounds implements Canvas.
func (r *Raster) Bounds() types.Rect { return fromImageRect(r.dst.Bounds()) }

// Clip implements Canvas.
func (r *Raster) Clip(rect types.Rect) Canvas {
	sub := r.dst.SubImage(toImageRect(rect)).(*image.RGBA)
	return &Raster{dst: sub, faces: r.faces}
}

// FillRect implements Canvas. Edges are rounded to whole pixels so
// adjacent cells never overlap.
func (r *Raster) FillRect(rect types.Rect, c color.Color) {
	draw.Draw(r.dst, toImageRect(rect), image.NewUniform(c), image.Point{}, draw.Over)
}

// FillRoundRect implements Canvas.
func (r *Raster) FillRoundRect(rect types.Rect, radius float64, c color.Color) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	radius = math.Max(0, math.Min(radius, math.Min(rect.Width, rect.Height)/2))
	r.fill(c, boundsOf(rect), func(p *pen) { p.roundRect(rect, radius) })
}

// FillPolygon implements Canvas.
func (r *Raster) FillPolygon(pts []types.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	r.fill(c, pointBounds(pts, 0), func(p *pen) { p.polygon(pts) })
}

// StrokePolyline implements Canvas. Each segment is filled as a quad and
// joints are rounded.
func (r *Raster) StrokePolyline(pts []types.Point, width float64, c color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	hw := width / 2
	bbox := pointBounds(pts, hw)
	mask := image.NewAlpha(image.Rect(0, 0, bbox.Dx(), bbox.Dy()))
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		quad := []types.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}
		union(mask, rasterize(bbox, func(p *pen) { p.polygon(quad) }))
		if i < len(pts)-1 {
			joint := types.Rect{X: b.X - hw, Y: b.Y - hw, Width: width, Height: width}
			union(mask, rasterize(bbox, func(p *pen) { p.ellipse(joint) }))
		}
	}
	draw.DrawMask(r.dst, bbox, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// DrawImageCircle implements Canvas.
func (r *Raster) DrawImageCircle(img image.Image, rect types.Rect) {
	if img == nil || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	bbox := boundsOf(rect)
	if bbox.Empty() {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, bbox.Dx(), bbox.Dy()))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	mask := rasterize(bbox, func(p *pen) { p.ellipse(rect) })
	draw.DrawMask(r.dst, bbox, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

// Text implements Canvas.
func (r *Raster) Text(x, y float64, s string, f Font, c color.Color) {
	if s == "" {
		return
	}
	r.faces.with(f, func(face font.Face) {
		d := font.Drawer{
			Dst:  r.dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
		}
		d.DrawString(s)
	})
}

// MeasureText implements Canvas.
func (r *Raster) MeasureText(s string, f Font) float64 {
	var w fixed.Int26_6
	r.faces.with(f, func(face font.Face) { w = font.MeasureString(face, s) })
	return float64(w) / 64
}

func (r *Raster) fill(c color.Color, bbox image.Rectangle, build func(p *pen)) {
	if bbox.Empty() {
		return
	}
	mask := rasterize(bbox, build)
	draw.DrawMask(r.dst, bbox, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// rasterize renders the path produced by build into an alpha mask the size
// of bbox. Path coordinates are surface coordinates.
func rasterize(bbox image.Rectangle, build func(p *pen)) *image.Alpha {
	z := vector.NewRasterizer(bbox.Dx(), bbox.Dy())
	build(&pen{z: z, ox: float64(bbox.Min.X), oy: float64(bbox.Min.Y)})
	mask := image.NewAlpha(image.Rect(0, 0, bbox.Dx(), bbox.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// union folds src coverage into dst.
func union(dst, src *image.Alpha) {
	draw.DrawMask(dst, dst.Bounds(), image.Opaque, image.Point{}, src, image.Point{}, draw.Over)
}

// pen writes surface coordinates into a rasterizer whose origin is (ox, oy).
type pen struct {
	z      *vector.Rasterizer
	ox, oy float64
}

func (p *pen) moveTo(x, y float64) { p.z.MoveTo(float32(x-p.ox), float32(y-p.oy)) }
func (p *pen) lineTo(x, y float64) { p.z.LineTo(float32(x-p.ox), float32(y-p.oy)) }

func (p *pen) cubeTo(bx, by, cx, cy, dx, dy float64) {
	p.z.CubeTo(
		float32(bx-p.ox), float32(by-p.oy),
		float32(cx-p.ox), float32(cy-p.oy),
		float32(dx-p.ox), float32(dy-p.oy),
	)
}

func (p *pen) polygon(pts []types.Point) {
	p.moveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.lineTo(pt.X, pt.Y)
	}
	p.z.ClosePath()
}

func (p *pen) ellipse(r types.Rect) {
	rx, ry := r.Width/2, r.Height/2
	cx, cy := r.X+rx, r.Y+ry
	kx, ky := rx*kappa, ry*kappa
	p.moveTo(cx+rx, cy)
	p.cubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.cubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.cubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.cubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.z.ClosePath()
}

func (p *pen) roundRect(r types.Rect, rad float64) {
	if rad == 0 {
		p.polygon([]types.Point{
			{X: r.X, Y: r.Y}, {X: r.Right(), Y: r.Y},
			{X: r.Right(), Y: r.Bottom()}, {X: r.X, Y: r.Bottom()},
		})
		return
	}
	k := rad * kappa
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()
	p.moveTo(x0+rad, y0)
	p.lineTo(x1-rad, y0)
	p.cubeTo(x1-rad+k, y0, x1, y0+rad-k, x1, y0+rad)
	p.lineTo(x1, y1-rad)
	p.cubeTo(x1, y1-rad+k, x1-rad+k, y1, x1-rad, y1)
	p.lineTo(x0+rad, y1)
	p.cubeTo(x0+rad-k, y1, x0, y1-rad+k, x0, y1-rad)
	p.lineTo(x0, y0+rad)
	p.cubeTo(x0, y0+rad-k, x0+rad-k, y0, x0+rad, y0)
	p.z.ClosePath()
}

// faceCache owns the parsed Go fonts and one face per (weight, size).
// Faces are not safe for concurrent use, so access goes through with.
type faceCache struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

var (
	parseOnce   sync.Once
	parsedFonts [2]*opentype.Font
	parseErr    error
)

func newFaceCache() (*faceCache, error) {
	parseOnce.Do(func() {
		parsedFonts[0], parseErr = opentype.Parse(goregular.TTF)
		if parseErr != nil {
			return
		}
		parsedFonts[1], parseErr = opentype.Parse(gobold.TTF)
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return &faceCache{
		regular: parsedFonts[0],
		bold:    parsedFonts[1],
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func (fc *faceCache) with(f Font, fn func(font.Face)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	key := faceKey{bold: f.Bold(), size: f.Size}
	face, ok := fc.faces[key]
	if !ok {
		src := fc.regular
		if key.bold {
			src = fc.bold
		}
		var err error
		face, err = opentype.NewFace(src, &opentype.FaceOptions{
			Size:    f.Size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return
		}
		fc.faces[key] = face
	}
	fn(face)
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func toImageRect(r types.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

func fromImageRect(r image.Rectangle) types.Rect {
	return types.Rect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

func boundsOf(r types.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}

func pointBounds(pts []types.Point, pad float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return boundsOf(types.Rect{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  maxX - minX + 2*pad,
		Height: maxY - minY + 2*pad,
	})
}
