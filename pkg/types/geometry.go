package types

// Rect is a pixel rectangle on the drawing surface.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Point is a pixel position on the drawing surface.
type Point struct {
	X float64
	Y float64
}

// Item addresses a cell by column and visible row position.
type Item struct {
	Col int
	Row int
}

// CellRange is a rectangular block of cells in column/row units.
type CellRange struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Viewport is the scrolled window of the grid. It is recomputed on every
// scroll event and never persisted.
type Viewport struct {
	FirstColumn int     `json:"first_column"`
	ColumnCount int     `json:"column_count"`
	OffsetX     float64 `json:"offset_x"`
	FirstRow    int     `json:"first_row"`
	RowCount    int     `json:"row_count"`
}
