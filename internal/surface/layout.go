// Package surface lays the grid out in pixels and paints it onto a canvas:
// group headers, headers, row markers, cells, the trailing add-row line and
// the footer. It also maps pixel positions back to grid addresses.
package surface

import (
	"math"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Fixed band heights, in pixels.
const (
	HeaderHeight      = 40
	GroupHeaderHeight = 32
	FooterHeight      = 40
	DefaultRowHeight  = 35
)

// RowMarkerWidth is the width of the row number column, which grows with
// the number of digits it must show.
func RowMarkerWidth(rows int) float64 {
	switch {
	case rows > 10000:
		return 48
	case rows > 1000:
		return 44
	case rows > 100:
		return 36
	}
	return 32
}

// Options are the inputs of a layout besides the columns.
type Options struct {
	Width     float64
	Height    float64
	RowHeight float64
	// Freeze is the number of leading columns that never scroll sideways.
	Freeze  int
	ScrollX float64
	ScrollY float64
	// Footer reserves the footer band at the bottom.
	Footer bool
	// AddRow shows the trailing "add row" line after the last row.
	AddRow bool
}

// Span is the horizontal extent of one column on screen.
type Span struct {
	Index   int
	X       float64
	Width   float64
	Frozen  bool
	Visible bool
}

// Right returns the x coordinate of the span's right edge.
func (s Span) Right() float64 { return s.X + s.Width }

// Layout is the pixel geometry of one frame.
type Layout struct {
	Options
	Rows        int
	MarkerWidth float64
	Groups      bool
	Spans       []Span

	frozenRight float64
	scrollWidth float64
}

// NewLayout positions the columns for a frame. Scroll offsets are clamped
// so the grid never scrolls past its content.
func NewLayout(cols []types.Column, rows int, opts Options) Layout {
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	opts.Freeze = min(max(opts.Freeze, 0), len(cols))

	l := Layout{
		Options:     opts,
		Rows:        rows,
		MarkerWidth: RowMarkerWidth(rows),
		Spans:       make([]Span, len(cols)),
	}
	for _, c := range cols {
		if c.Group != "" {
			l.Groups = true
			break
		}
	}

	x := l.MarkerWidth
	for i := range opts.Freeze {
		w := float64(cols[i].Width)
		l.Spans[i] = Span{Index: i, X: x, Width: w, Frozen: true}
		x += w
	}
	l.frozenRight = x
	for i := opts.Freeze; i < len(cols); i++ {
		l.scrollWidth += float64(cols[i].Width)
	}

	l.ScrollX = clamp(opts.ScrollX, 0, math.Max(0, l.scrollWidth-(opts.Width-l.frozenRight)))
	l.ScrollY = clamp(opts.ScrollY, 0, math.Max(0, l.contentHeight()-l.bodyHeight()))

	x = l.frozenRight - l.ScrollX
	for i := opts.Freeze; i < len(cols); i++ {
		w := float64(cols[i].Width)
		l.Spans[i] = Span{Index: i, X: x, Width: w}
		x += w
	}
	for i := range l.Spans {
		s := &l.Spans[i]
		if s.Frozen {
			s.Visible = s.X < opts.Width
			continue
		}
		s.Visible = s.Right() > l.frozenRight && s.X < opts.Width
	}
	return l
}

// HeaderTop is the y coordinate of the column header band.
func (l Layout) HeaderTop() float64 {
	if l.Groups {
		return GroupHeaderHeight
	}
	return 0
}

// BodyTop is the y coordinate where rows start.
func (l Layout) BodyTop() float64 { return l.HeaderTop() + HeaderHeight }

// BodyBottom is the y coordinate where the row area ends.
func (l Layout) BodyBottom() float64 {
	if l.Footer {
		return l.Height - FooterHeight
	}
	return l.Height
}

// FrozenRight is the x coordinate where the scrolling columns begin.
func (l Layout) FrozenRight() float64 { return l.frozenRight }

func (l Layout) bodyHeight() float64 { return math.Max(0, l.BodyBottom()-l.BodyTop()) }

func (l Layout) contentHeight() float64 {
	n := l.Rows
	if l.AddRow {
		n++
	}
	return float64(n) * l.RowHeight
}

// RowY returns the top of the row at a visible position.
func (l Layout) RowY(row int) float64 {
	return l.BodyTop() + float64(row)*l.RowHeight - l.ScrollY
}

// RowRange returns the first visible row and how many rows are at least
// partly on screen.
func (l Layout) RowRange() (first, count int) {
	if l.Rows == 0 || l.bodyHeight() == 0 {
		return 0, 0
	}
	first = int(l.ScrollY / l.RowHeight)
	last := int(math.Ceil((l.ScrollY+l.bodyHeight())/l.RowHeight)) - 1
	last = min(last, l.Rows-1)
	if last < first {
		return first, 0
	}
	return first, last - first + 1
}

// CellRect returns the on-screen rectangle of a cell and whether any of it
// is visible.
func (l Layout) CellRect(item types.Item) (types.Rect, bool) {
	if item.Col < 0 || item.Col >= len(l.Spans) || item.Row < 0 || item.Row >= l.Rows {
		return types.Rect{}, false
	}
	s := l.Spans[item.Col]
	r := types.Rect{X: s.X, Y: l.RowY(item.Row), Width: s.Width, Height: l.RowHeight}
	visible := s.Visible && r.Bottom() > l.BodyTop() && r.Y < l.BodyBottom()
	return r, visible
}

// HeaderRect returns the header rectangle of a column.
func (l Layout) HeaderRect(col int) types.Rect {
	s := l.Spans[col]
	return types.Rect{X: s.X, Y: l.HeaderTop(), Width: s.Width, Height: HeaderHeight}
}

// Viewport reports the visible window: the scrolling columns on screen, the
// sub-column offset of the first one, and the visible rows.
func (l Layout) Viewport() types.Viewport {
	var v types.Viewport
	v.FirstColumn = -1
	for _, s := range l.Spans {
		if s.Frozen || !s.Visible {
			continue
		}
		if v.FirstColumn < 0 {
			v.FirstColumn = s.Index
			v.OffsetX = s.X - l.frozenRight
		}
		v.ColumnCount++
	}
	if v.FirstColumn < 0 {
		v.FirstColumn = l.Freeze
	}
	v.FirstRow, v.RowCount = l.RowRange()
	return v
}

// Area names the part of the surface under a point.
type Area int

// Surface areas.
const (
	AreaNone Area = iota
	AreaGroupHeader
	AreaHeader
	AreaMarker
	AreaCell
	AreaAddRow
	AreaFooter
)

// Hit is the result of a hit test. Item.Col is -1 over the marker column
// and Item.Row is -1 outside the row area.
type Hit struct {
	Area Area
	Item types.Item
}

// HitTest maps a point to the grid part under it.
func (l Layout) HitTest(x, y float64) Hit {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Hit{Area: AreaNone, Item: types.Item{Col: -1, Row: -1}}
	}
	col := l.columnAt(x)
	switch {
	case y < l.HeaderTop():
		return Hit{Area: AreaGroupHeader, Item: types.Item{Col: col, Row: -1}}
	case y < l.BodyTop():
		return Hit{Area: AreaHeader, Item: types.Item{Col: col, Row: -1}}
	case y >= l.BodyBottom():
		return Hit{Area: AreaFooter, Item: types.Item{Col: col, Row: -1}}
	}

	row := int(math.Floor((y - l.BodyTop() + l.ScrollY) / l.RowHeight))
	switch {
	case row < l.Rows && x < l.MarkerWidth:
		return Hit{Area: AreaMarker, Item: types.Item{Col: -1, Row: row}}
	case row < l.Rows && col >= 0:
		return Hit{Area: AreaCell, Item: types.Item{Col: col, Row: row}}
	case row == l.Rows && l.AddRow:
		return Hit{Area: AreaAddRow, Item: types.Item{Col: col, Row: -1}}
	}
	return Hit{Area: AreaNone, Item: types.Item{Col: col, Row: -1}}
}

// columnAt returns the column under x, or -1. Frozen columns sit on top of
// the scrolling ones.
func (l Layout) columnAt(x float64) int {
	if x < l.MarkerWidth {
		return -1
	}
	if x < l.frozenRight {
		for _, s := range l.Spans[:l.Freeze] {
			if x >= s.X && x < s.Right() {
				return s.Index
			}
		}
		return -1
	}
	for _, s := range l.Spans[l.Freeze:] {
		if x >= s.X && x < s.Right() {
			return s.Index
		}
	}
	return -1
}

// ScrollToColumn returns the ScrollX that brings a scrolling column fully
// into view with the least movement. Frozen columns need no scroll.
func (l Layout) ScrollToColumn(col int) float64 {
	if col < l.Freeze || col >= len(l.Spans) {
		return l.ScrollX
	}
	s := l.Spans[col]
	view := l.Width - l.frozenRight
	switch {
	case s.X < l.frozenRight:
		return l.ScrollX - (l.frozenRight - s.X)
	case s.Right() > l.frozenRight+view:
		return l.ScrollX + (s.Right() - (l.frozenRight + view))
	}
	return l.ScrollX
}

func clamp(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }
