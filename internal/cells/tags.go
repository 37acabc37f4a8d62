package cells

import (
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mesh-intelligence/griddle/internal/canvas"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Pill layout.
const (
	pillPadX   = 8
	pillGap    = 6
	pillRadius = 10
	pillHeight = 22
	defaultBG  = "#E5E7EB"
)

// Tags draws a row of coloured pills. A pill that would cross the right
// padding is dropped along with every pill after it; pills are never cut.
type Tags struct{}

// Kind implements Renderer.
func (Tags) Kind() types.CustomKind { return types.CustomTags }

// IsMatch implements Renderer.
func (Tags) IsMatch(c types.CustomCell) bool { return types.IsCustomKind(c, types.CustomTags) }

// Draw implements Renderer.
func (Tags) Draw(args DrawArgs, c types.CustomCell) {
	p, _ := c.Payload.(types.Tags)
	if len(p.Tags) == 0 {
		return
	}
	th := args.Theme
	f := canvas.ParseFont(th.BaseFont())
	r := args.Rect
	x := r.X + th.CellHorizontalPadding
	maxX := r.Right() - th.CellHorizontalPadding
	top := r.CenterY() - pillHeight/2
	textDark := theme.Color(th.TextDark, color.Black)

	for _, tag := range p.Tags {
		w := args.Canvas.MeasureText(tag, f) + 2*pillPadX
		if x+w > maxX {
			break
		}
		bg, fg := theme.Color(defaultBG, color.Gray{Y: 0xe5}), textDark
		if tc, ok := p.Colors[tag]; ok {
			bg = theme.Color(tc.BG, bg)
			fg = theme.Color(tc.FG, fg)
		}
		args.Canvas.FillRoundRect(types.Rect{X: x, Y: top, Width: w, Height: pillHeight}, pillRadius, bg)
		args.Canvas.Text(x+pillPadX, middle(r, f), tag, f, fg)
		x += w + pillGap
	}
}

// Text implements Renderer. Tags are bracketed and dropped whole when they
// do not fit.
func (Tags) Text(c types.CustomCell, width int) string {
	p, _ := c.Payload.(types.Tags)
	var b strings.Builder
	used := 0
	for _, tag := range p.Tags {
		pill := "[" + tag + "]"
		w := runewidth.StringWidth(pill)
		sep := 0
		if used > 0 {
			sep = 1
		}
		if used+sep+w > width {
			break
		}
		if sep > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pill)
		used += sep + w
	}
	return b.String()
}
