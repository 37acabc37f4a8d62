package cells

import (
	"math"
	"strings"

	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Sparkline layout.
const (
	sparkPadX      = 8
	sparkPadY      = 10
	sparkLineWidth = 1.4
	sparkFillAlpha = 0.08
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws a series as a small line chart with a faint area fill.
type Sparkline struct{}

// Kind implements Renderer.
func (Sparkline) Kind() types.CustomKind { return types.CustomSparkline }

// IsMatch implements Renderer.
func (Sparkline) IsMatch(c types.CustomCell) bool { return types.IsCustomKind(c, types.CustomSparkline) }

// Draw implements Renderer.
func (Sparkline) Draw(args DrawArgs, c types.CustomCell) {
	p, _ := c.Payload.(types.Sparkline)
	pts := SparklinePoints(p.Values, args.Rect)
	if len(pts) == 0 {
		return
	}
	col := theme.Color(p.Color, theme.MustColor(args.Theme.AccentColor))

	r := args.Rect
	area := append([]types.Point(nil), pts...)
	area = append(area,
		types.Point{X: r.X + sparkPadX + (r.Width - 2*sparkPadX), Y: r.Bottom() - sparkPadY},
		types.Point{X: r.X + sparkPadX, Y: r.Bottom() - sparkPadY},
	)
	args.Canvas.FillPolygon(area, theme.WithAlpha(col, sparkFillAlpha))
	args.Canvas.StrokePolyline(pts, sparkLineWidth, col)
}

// SparklinePoints maps values into r, left to right inside the padding. The
// series is normalised to its own range; a flat series uses a span of 1 so
// it draws along the bottom of the plot area. NaN and infinite values sit on
// the bottom and do not widen the range.
func SparklinePoints(values []float64, r types.Rect) []types.Point {
	if len(values) == 0 {
		return nil
	}
	lo, hi := minMax(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	w := r.Width - 2*sparkPadX
	h := r.Height - 2*sparkPadY
	steps := float64(max(len(values)-1, 1))

	pts := make([]types.Point, len(values))
	for i, v := range values {
		pts[i] = types.Point{
			X: r.X + sparkPadX + float64(i)/steps*w,
			Y: r.Y + sparkPadY + h - norm(v, lo, span)*h,
		}
	}
	return pts
}

// Text implements Renderer. The series is resampled to width block glyphs.
func (Sparkline) Text(c types.CustomCell, width int) string {
	p, _ := c.Payload.(types.Sparkline)
	if len(p.Values) == 0 || width <= 0 {
		return ""
	}
	n := min(width, len(p.Values))
	lo, hi := minMax(p.Values)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		// Nearest sample for column i.
		j := i
		if n > 1 {
			j = int(math.Round(float64(i) * float64(len(p.Values)-1) / float64(n-1)))
		}
		level := int(norm(p.Values[j], lo, span) * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[level])
	}
	return b.String()
}

// minMax returns the range of the finite values, or 0, 0 when there are
// none.
func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if finite(v) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// norm places v in [0, 1] within the range starting at lo.
func norm(v, lo, span float64) float64 {
	if !finite(v) {
		return 0
	}
	return min(max((v-lo)/span, 0), 1)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
