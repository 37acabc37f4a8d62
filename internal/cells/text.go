package cells

import (
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Ellipsis marks text cut to fit a column.
const Ellipsis = "…"

// truncate fits s into width terminal columns, marking cuts with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// CellText renders any cell as text for a terminal surface, delegating
// custom cells to the registry.
func (r *Registry) CellText(cell types.CellValue, width int) string {
	var t textRenderer
	t.registry, t.width = r, width
	if cell != nil {
		cell.Accept(&t)
	}
	return t.out
}

type textRenderer struct {
	registry *Registry
	width    int
	out      string
}

func (t *textRenderer) VisitLoading(types.LoadingCell) { t.out = truncate("…", t.width) }
func (t *textRenderer) VisitText(c types.TextCell)     { t.out = truncate(display(c.Display, c.Data), t.width) }
func (t *textRenderer) VisitURI(c types.URICell)       { t.out = truncate(display(c.Display, c.Data), t.width) }
func (t *textRenderer) VisitCustom(c types.CustomCell) { t.out = t.registry.Text(c, t.width) }

func (t *textRenderer) VisitBoolean(c types.BooleanCell) {
	if c.Data {
		t.out = truncate("[x]", t.width)
		return
	}
	t.out = truncate("[ ]", t.width)
}

func (t *textRenderer) VisitNumber(c types.NumberCell) {
	switch {
	case c.Display != "":
		t.out = truncate(c.Display, t.width)
	case c.Data != nil:
		t.out = truncate(strconv.FormatFloat(*c.Data, 'f', -1, 64), t.width)
	}
}

func display(shown, data string) string {
	if shown != "" {
		return shown
	}
	return data
}
