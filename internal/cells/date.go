package cells

import (
	"image/color"

	"github.com/mesh-intelligence/griddle/internal/canvas"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Date draws a date's display string, or "Invalid Date" when it is empty.
type Date struct{}

// Kind implements Renderer.
func (Date) Kind() types.CustomKind { return types.CustomDate }

// IsMatch implements Renderer.
func (Date) IsMatch(c types.CustomCell) bool { return types.IsCustomKind(c, types.CustomDate) }

// Draw implements Renderer.
func (Date) Draw(args DrawArgs, c types.CustomCell) {
	th := args.Theme
	f := canvas.ParseFont(th.BaseFont())
	fg := theme.Color(th.TextDark, color.Black)
	args.Canvas.Text(args.Rect.X+th.CellHorizontalPadding, middle(args.Rect, f), dateText(c), f, fg)
}

// Text implements Renderer.
func (Date) Text(c types.CustomCell, width int) string {
	return truncate(dateText(c), width)
}

func dateText(c types.CustomCell) string {
	if c.Display != "" {
		return c.Display
	}
	p, _ := c.Payload.(types.Date)
	return types.FormatDate(p.Time)
}
