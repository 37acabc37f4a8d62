package surface

import (
	"image/color"
	"io"
	"log/slog"
	"strconv"

	"github.com/mesh-intelligence/griddle/internal/aggregate"
	"github.com/mesh-intelligence/griddle/internal/canvas"
	"github.com/mesh-intelligence/griddle/internal/cells"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// AddRowHint labels the trailing add-row line.
const AddRowHint = "Add row"

// Grid is the read side of a view controller.
type Grid interface {
	Columns() []types.Column
	Len() int
	CellAt(item types.Item) types.CellValue
	Selection() types.Selection
	Sort() types.SortSpec
}

// Footer supplies the footer cell of each column.
type Footer interface {
	Cell(columnID string) aggregate.Cell
}

// Stats counts what one paint pass drew.
type Stats struct {
	Cells     int
	Custom    int
	Unmatched int
}

// Painter paints frames of a grid.
type Painter struct {
	theme    theme.Theme
	registry *cells.Registry
	images   cells.Images
	logger   *slog.Logger
}

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithImages sets the avatar source used by persona cells.
func WithImages(images cells.Images) PainterOption {
	return func(p *Painter) { p.images = images }
}

// WithLogger sets the painter's logger.
func WithLogger(l *slog.Logger) PainterOption {
	return func(p *Painter) { p.logger = l }
}

// NewPainter returns a painter drawing with th and the custom renderers in
// registry.
func NewPainter(th theme.Theme, registry *cells.Registry, opts ...PainterOption) *Painter {
	p := &Painter{
		theme:    th,
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Theme returns the painter's theme.
func (p *Painter) Theme() theme.Theme { return p.theme }

// Paint draws one frame. The footer is drawn when the layout reserves it
// and f is not nil.
func (p *Painter) Paint(c canvas.Canvas, g Grid, l Layout, f Footer) Stats {
	th := p.theme
	c.FillRect(types.Rect{Width: l.Width, Height: l.Height}, theme.Color(th.BgCell, color.White))

	cols := g.Columns()
	sel := g.Selection()
	var st Stats

	body := types.Rect{X: l.MarkerWidth, Y: l.BodyTop(), Width: l.Width - l.MarkerWidth, Height: l.BodyBottom() - l.BodyTop()}
	scroll := c.Clip(types.Rect{X: l.FrozenRight(), Y: body.Y, Width: l.Width - l.FrozenRight(), Height: body.Height})
	frozen := c.Clip(body)

	first, count := l.RowRange()
	for row := first; row < first+count; row++ {
		selected := sel.Contains(row)
		for _, s := range l.Spans {
			if !s.Visible {
				continue
			}
			dst := scroll
			if s.Frozen {
				dst = frozen
			}
			item := types.Item{Col: s.Index, Row: row}
			rect, _ := l.CellRect(item)
			p.paintCell(dst, rect, item, g.CellAt(item), selected, &st)
		}
		p.paintMarker(c.Clip(types.Rect{Y: body.Y, Width: l.MarkerWidth, Height: body.Height}), l, row, selected)
	}
	if l.AddRow {
		p.paintAddRow(c.Clip(body), l)
	}

	p.paintHeaders(c, l, cols, g.Sort())
	if l.Footer && f != nil {
		p.paintFooter(c, l, cols, g.Len(), f)
	}
	p.logger.Debug("painted frame", "cells", st.Cells, "custom", st.Custom, "unmatched", st.Unmatched)
	return st
}

func (p *Painter) paintCell(c canvas.Canvas, rect types.Rect, item types.Item, cell types.CellValue, selected bool, st *Stats) {
	th := p.theme
	bg := theme.Color(th.BgCell, color.White)
	if selected {
		bg = theme.Color(th.AccentLight, bg)
	}
	cc := c.Clip(rect)
	cc.FillRect(rect, bg)
	border := theme.Color(th.BorderColor, color.Gray{Y: 0xdd})
	cc.FillRect(types.Rect{X: rect.Right() - 1, Y: rect.Y, Width: 1, Height: rect.Height}, border)
	cc.FillRect(types.Rect{X: rect.X, Y: rect.Bottom() - 1, Width: rect.Width, Height: 1}, theme.Color(th.HorizontalBorder, border))

	st.Cells++
	if cell == nil {
		return
	}
	cell.Accept(&cellPainter{p: p, c: cc, rect: rect, item: item, fill: bg, stats: st})
}

// cellPainter draws one cell of each kind. Native kinds are drawn here;
// custom cells go to the registry.
type cellPainter struct {
	p     *Painter
	c     canvas.Canvas
	rect  types.Rect
	item  types.Item
	fill  color.Color
	stats *Stats
}

func (cp *cellPainter) text(s string, fg string, alignRight bool) {
	th := cp.p.theme
	f := canvas.ParseFont(th.BaseFont())
	x := cp.rect.X + th.CellHorizontalPadding
	if alignRight {
		x = cp.rect.Right() - th.CellHorizontalPadding - cp.c.MeasureText(s, f)
	}
	cp.c.Text(x, baseline(cp.rect, f), s, f, theme.Color(fg, color.Black))
}

func (cp *cellPainter) VisitText(c types.TextCell) {
	cp.text(displayOf(c.Display, c.Data), cp.p.theme.TextDark, false)
}

func (cp *cellPainter) VisitURI(c types.URICell) {
	cp.text(displayOf(c.Display, c.Data), cp.p.theme.LinkColor, false)
}

func (cp *cellPainter) VisitNumber(c types.NumberCell) {
	s := c.Display
	if s == "" && c.Data != nil {
		s = strconv.FormatFloat(*c.Data, 'f', -1, 64)
	}
	cp.text(s, cp.p.theme.TextDark, true)
}

func (cp *cellPainter) VisitBoolean(c types.BooleanCell) {
	th := cp.p.theme
	const size = 18
	box := types.Rect{
		X:      cp.rect.X + (cp.rect.Width-size)/2,
		Y:      cp.rect.CenterY() - size/2,
		Width:  size,
		Height: size,
	}
	if !c.Data {
		outline := theme.Color(th.TextLight, color.Gray{Y: 0x9e})
		cp.c.FillRoundRect(box, 4, outline)
		cp.c.FillRoundRect(box.Inset(1.5), 3, cp.fill)
		return
	}
	cp.c.FillRoundRect(box, 4, theme.Color(th.AccentColor, color.Black))
	check := []types.Point{
		{X: box.X + 4.5, Y: box.Y + 9.5},
		{X: box.X + 7.5, Y: box.Y + 12.5},
		{X: box.X + 13.5, Y: box.Y + 5.5},
	}
	cp.c.StrokePolyline(check, 2, theme.Color(th.AccentFg, color.White))
}

func (cp *cellPainter) VisitLoading(types.LoadingCell) {
	th := cp.p.theme
	bar := types.Rect{X: cp.rect.X + th.CellHorizontalPadding, Y: cp.rect.CenterY() - 4, Width: min(cp.rect.Width/2, 60), Height: 8}
	cp.c.FillRoundRect(bar, 4, theme.Color(th.BgBubble, color.Gray{Y: 0xe5}))
}

func (cp *cellPainter) VisitCustom(c types.CustomCell) {
	cp.stats.Custom++
	args := cells.DrawArgs{
		Canvas: cp.c,
		Theme:  cp.p.theme,
		Rect:   cp.rect,
		Fill:   cp.fill,
		Item:   cp.item,
		Images: cp.p.images,
	}
	if !cp.p.registry.Draw(args, c) {
		cp.stats.Unmatched++
	}
}

func (p *Painter) paintMarker(c canvas.Canvas, l Layout, row int, selected bool) {
	th := p.theme
	rect := types.Rect{Y: l.RowY(row), Width: l.MarkerWidth, Height: l.RowHeight}
	f := canvas.ParseFont(th.MarkerFont())
	label := strconv.Itoa(row + 1)
	fg := theme.Color(th.TextLight, color.Gray{Y: 0x9e})
	if selected {
		c.FillRoundRect(rect.Inset(5), th.RoundingRadius, theme.Color(th.AccentColor, color.Black))
		fg = theme.Color(th.AccentFg, color.White)
	}
	w := c.MeasureText(label, f)
	c.Text(rect.X+(rect.Width-w)/2, baseline(rect, f), label, f, fg)
}

func (p *Painter) paintAddRow(c canvas.Canvas, l Layout) {
	th := p.theme
	rect := types.Rect{X: l.MarkerWidth, Y: l.RowY(l.Rows), Width: l.Width - l.MarkerWidth, Height: l.RowHeight}
	f := canvas.ParseFont(th.BaseFont())
	c.Text(rect.X+th.CellHorizontalPadding, baseline(rect, f), "+ "+AddRowHint, f, theme.Color(th.TextLight, color.Gray{Y: 0x9e}))
}

func (p *Painter) paintHeaders(c canvas.Canvas, l Layout, cols []types.Column, sort types.SortSpec) {
	th := p.theme
	bg := theme.Color(th.BgHeader, color.White)
	c.FillRect(types.Rect{Width: l.Width, Height: l.BodyTop()}, bg)

	hf := canvas.ParseFont(th.HeaderFont())
	fg := theme.Color(th.TextHeader, color.Black)
	scroll := c.Clip(types.Rect{X: l.FrozenRight(), Width: l.Width - l.FrozenRight(), Height: l.BodyTop()})
	for _, s := range l.Spans {
		if !s.Visible {
			continue
		}
		dst := scroll
		if s.Frozen {
			dst = c
		}
		col := cols[s.Index]
		rect := l.HeaderRect(s.Index)
		hc := dst.Clip(rect)
		hc.Text(rect.X+th.CellHorizontalPadding, baseline(rect, hf), col.Title, hf, fg)
		if sort.Active() && sort.ColumnID == col.ID {
			p.paintSortArrow(hc, rect, sort.Direction)
		}
		hc.FillRect(types.Rect{X: rect.Right() - 1, Y: rect.Y, Width: 1, Height: rect.Height}, theme.Color(th.BorderColor, color.Gray{Y: 0xdd}))
	}
	c.FillRect(types.Rect{Y: l.BodyTop() - 1, Width: l.Width, Height: 1}, theme.Color(th.HeaderBottomBorder, color.Gray{Y: 0xe5}))

	if l.Groups {
		p.paintGroups(c, scroll, l, cols)
	}
}

func (p *Painter) paintSortArrow(c canvas.Canvas, rect types.Rect, dir types.Direction) {
	th := p.theme
	cx := rect.Right() - th.CellHorizontalPadding - 5
	cy := rect.CenterY()
	up := []types.Point{{X: cx - 5, Y: cy + 3}, {X: cx + 5, Y: cy + 3}, {X: cx, Y: cy - 3}}
	if dir == types.Descending {
		up = []types.Point{{X: cx - 5, Y: cy - 3}, {X: cx + 5, Y: cy - 3}, {X: cx, Y: cy + 3}}
	}
	c.FillPolygon(up, theme.Color(th.TextMedium, color.Gray{Y: 0x75}))
}

// paintGroups draws one label per run of adjacent columns sharing a group.
// A run never spans the frozen boundary.
func (p *Painter) paintGroups(c, scroll canvas.Canvas, l Layout, cols []types.Column) {
	th := p.theme
	f := canvas.ParseFont(th.HeaderFont())
	fg := theme.Color(th.TextGroupHeader, color.Black)
	border := theme.Color(th.BorderColor, color.Gray{Y: 0xdd})

	for i := 0; i < len(cols); {
		j := i + 1
		for j < len(cols) && cols[j].Group == cols[i].Group && l.Spans[j].Frozen == l.Spans[i].Frozen {
			j++
		}
		start, end := l.Spans[i], l.Spans[j-1]
		rect := types.Rect{X: start.X, Width: end.Right() - start.X, Height: GroupHeaderHeight}
		dst := scroll
		if start.Frozen {
			dst = c
		}
		if rect.Right() > l.MarkerWidth && rect.X < l.Width {
			gc := dst.Clip(rect)
			gc.Text(rect.X+th.CellHorizontalPadding, baseline(rect, f), cols[i].Group, f, fg)
			gc.FillRect(types.Rect{X: rect.Right() - 1, Width: 1, Height: rect.Height}, border)
		}
		i = j
	}
}

func (p *Painter) paintFooter(c canvas.Canvas, l Layout, cols []types.Column, rows int, f Footer) {
	th := p.theme
	top := l.BodyBottom()
	band := types.Rect{Y: top, Width: l.Width, Height: FooterHeight}
	c.FillRect(band, theme.Color(th.BgCell, color.White))
	c.FillRect(types.Rect{Y: top, Width: l.Width, Height: 1}, theme.Color(th.BorderColor, color.Gray{Y: 0xdd}))

	bold := canvas.ParseFont(th.MarkerFont())
	count := strconv.Itoa(rows)
	marker := types.Rect{Y: top, Width: l.MarkerWidth, Height: FooterHeight}
	c.Text(marker.X+(marker.Width-c.MeasureText(count, bold))/2, baseline(marker, bold), count, bold, theme.Color(th.TextDark, color.Black))

	base := canvas.ParseFont(th.BaseFont())
	scroll := c.Clip(types.Rect{X: l.FrozenRight(), Y: top, Width: l.Width - l.FrozenRight(), Height: FooterHeight})
	for _, s := range l.Spans {
		if !s.Visible {
			continue
		}
		cell := f.Cell(cols[s.Index].ID)
		text := cell.Text()
		if text == "" {
			continue
		}
		fg := theme.Color(th.TextDark, color.Black)
		if !cell.Present {
			fg = theme.Color(th.TextLight, color.Gray{Y: 0x9e})
		}
		rect := types.Rect{X: s.X, Y: top, Width: s.Width, Height: FooterHeight}
		dst := scroll
		if s.Frozen {
			dst = c
		}
		dst.Clip(rect).Text(rect.X+th.CellHorizontalPadding, baseline(rect, base), text, base, fg)
	}
}

// baseline vertically centres text of font f in r.
func baseline(r types.Rect, f canvas.Font) float64 {
	return r.CenterY() + f.Size*0.35
}

func displayOf(shown, data string) string {
	if shown != "" {
		return shown
	}
	return data
}
