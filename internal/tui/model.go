// Package tui is the terminal front end of the grid: a Bubble Tea model that
// draws a view.Controller as text and maps keys to the controller's
// interaction entry points. Custom cells are rendered through the cell
// registry's text renderers and edited through its overlays.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/griddle/internal/aggregate"
	"github.com/mesh-intelligence/griddle/internal/cells"
	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/internal/view"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

type mode int

const (
	modeNormal mode = iota
	modeText
	modeOverlay
)

// Terminal geometry.
const (
	defaultWidth  = 120
	defaultHeight = 30
	pxPerChar     = 10
	minCellChars  = 4
	resizeStepPx  = 20
	// chromeLines is every line that is not a data row: group header,
	// header, rule, footer, status and help.
	chromeLines = 6
)

// Config wires the model to the rest of the grid.
type Config[T types.Record] struct {
	Theme     theme.Theme
	Overrides map[string]any
	Registry  *cells.Registry
	Footer    *aggregate.Footer
	Freeze    int
	Seed      int
	// Refresh regenerates the rows from a seed. Nil disables the refresh key.
	Refresh func(seed int) []T
	Logger  *slog.Logger
	// Now returns the date the picker's today key selects.
	Now func() time.Time
}

// Model is the Bubble Tea model over one grid.
type Model[T types.Record] struct {
	grid   *view.Controller[T]
	cfg    Config[T]
	styles styles

	mode     mode
	row, col int
	top      int
	scroll   int
	width    int
	height   int

	input    textinput.Model
	editing  types.Item
	editType string
	ov       overlay.Overlay

	status string
	err    error
}

// New returns a model over grid. Missing config pieces get defaults: the
// light theme, the default cell registry and a footer over the grid.
func New[T types.Record](grid *view.Controller[T], cfg Config[T]) Model[T] {
	if cfg.Theme.Variant == "" {
		cfg.Theme = theme.Light()
	}
	if cfg.Registry == nil {
		cfg.Registry = cells.Default(nil)
	}
	if cfg.Footer == nil {
		cfg.Footer = aggregate.NewFooter(grid, grid.Columns())
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	in := textinput.New()
	in.Prompt = "> "
	return Model[T]{
		grid:   grid,
		cfg:    cfg,
		styles: newStyles(cfg.Theme),
		width:  defaultWidth,
		height: defaultHeight,
		input:  in,
	}
}

// Init implements tea.Model.
func (m Model[T]) Init() tea.Cmd { return nil }

// Cursor returns the focused cell in visible coordinates.
func (m Model[T]) Cursor() types.Item { return types.Item{Col: m.col, Row: m.row} }

// Update implements tea.Model.
func (m Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch m.mode {
		case modeText:
			m, cmd = m.updateText(msg)
		case modeOverlay:
			m = m.updateOverlay(msg)
		default:
			m, cmd = m.updateNormal(msg)
		}
	}
	m = m.clamp()
	m.grid.SetViewport(m.viewport())
	return m, cmd
}

func (m Model[T]) updateNormal(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	m.status, m.err = "", nil
	cols := m.grid.Columns()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.row--
	case "down", "j":
		m.row++
	case "left", "h":
		m.col--
	case "right", "l":
		m.col++
	case "home", "g":
		m.row = 0
	case "end", "G":
		m.row = m.grid.Len() - 1
	case "pgup":
		m.row -= m.bodyRows()
	case "pgdown":
		m.row += m.bodyRows()
	case "enter":
		return m.beginEdit()
	case " ":
		m = m.toggle()
	case "s", "S", "c":
		if len(cols) == 0 {
			break
		}
		dir := types.Ascending
		switch msg.String() {
		case "S":
			dir = types.Descending
		case "c":
			dir = types.DirectionNone
		}
		if err := m.grid.SetSort(cols[m.col].ID, dir); err != nil {
			m.err = err
		}
	case "v":
		m.grid.ToggleRow(m.row)
	case "esc":
		m.grid.ClearSelection()
	case "d":
		n := m.grid.DeleteSelected()
		if n == 0 {
			n = m.grid.DeleteRows([]int{m.row})
		}
		m.status = fmt.Sprintf("deleted %d", n)
	case "a":
		if r, ok := m.grid.AddRow(); ok {
			m.row = m.position(r.RowID())
			m.status = fmt.Sprintf("added row %d", r.RowID())
		}
	case "+", "=", "-":
		if len(cols) == 0 {
			break
		}
		delta := resizeStepPx
		if msg.String() == "-" {
			delta = -delta
		}
		c := cols[m.col]
		m.grid.ResizeColumn(c, c.Width+delta, m.col)
	case "f":
		if len(cols) == 0 {
			break
		}
		k := m.cfg.Footer.Cycle(cols[m.col].ID)
		m.status = "footer: " + aggregate.Label(k)
	case "t":
		m = m.toggleTheme()
	case "r":
		m = m.refresh()
	}
	return m, nil
}

// beginEdit opens the editor the focused cell calls for: an overlay for
// editable custom cells, a line editor for text, URI and number columns,
// and a toggle for booleans.
func (m Model[T]) beginEdit() (Model[T], tea.Cmd) {
	cols := m.grid.Columns()
	r, ok := m.grid.RowAt(m.row)
	if !ok || m.col >= len(cols) {
		return m, nil
	}
	col := cols[m.col]
	if !col.Editable {
		m.status = col.Title + " is read-only"
		return m, nil
	}
	cell := m.grid.CellAt(m.Cursor())
	switch c := cell.(type) {
	case types.CustomCell:
		ov, err := m.cfg.Registry.Editor(c, r.RowID(), col.ID)
		if err != nil {
			m.cfg.Logger.Debug("edit ignored", "column", col.ID, "row", r.RowID(), "reason", err)
			m.status = "no editor for " + col.Title
			return m, nil
		}
		m.grid.BeginEdit(ov)
		m.ov, m.mode = ov, modeOverlay
		m.cfg.Logger.Debug("overlay opened", "column", col.ID, "row", r.RowID(), "session", ov.Session().String())
		return m, nil
	case types.BooleanCell:
		return m.toggle(), nil
	case types.TextCell, types.URICell, types.NumberCell:
		m.editing, m.editType = m.Cursor(), col.Type
		m.mode = modeText
		m.input.SetValue(types.CopyText(c))
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model[T]) toggle() Model[T] {
	b, ok := m.grid.CellAt(m.Cursor()).(types.BooleanCell)
	if !ok {
		return m
	}
	if !m.grid.EditCell(m.Cursor(), types.BooleanCell{Data: !b.Data}) {
		m.status = "read-only"
	}
	return m
}

func (m Model[T]) updateText(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.endText(), nil
	case tea.KeyEnter:
		edit, err := textEdit(m.editType, m.input.Value())
		if err != nil {
			m.err = err
			return m.endText(), nil
		}
		if m.grid.EditCell(m.editing, edit) {
			m.status = "saved"
		}
		return m.endText(), nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model[T]) endText() Model[T] {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = modeNormal
	return m
}

// textEdit builds the committed cell for a line edit. An empty number
// clears the cell.
func textEdit(columnType, s string) (types.CellValue, error) {
	switch columnType {
	case types.ColumnNumber:
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			return types.NumberCell{}, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", s, err)
		}
		return types.NumberCell{Data: &v}, nil
	case types.ColumnURI:
		return types.URICell{Data: s, Display: s}, nil
	default:
		return types.TextCell{Data: s, Display: s}, nil
	}
}

func (m Model[T]) updateOverlay(msg tea.KeyMsg) Model[T] {
	key := msg.String()
	switch key {
	case "enter":
		return m.finish(m.ov.Confirm())
	case "esc":
		return m.finish(m.ov.Escape())
	case "delete", "backspace":
		return m.finish(m.ov.Delete())
	case "up", "down", "left", "right":
		// Leaving the cell is the terminal's outside click.
		m = m.finish(m.ov.OutsideClick())
		next, _ := m.updateNormal(msg)
		return next
	case "ctrl+c":
		m.ov.Close()
		m.grid.EndEdit()
		m.ov, m.mode = nil, modeNormal
		return m
	}

	switch o := m.ov.(type) {
	case *overlay.DatePicker:
		switch key {
		case "+", "=":
			o.Shift(1, m.cfg.Now())
		case "-":
			o.Shift(-1, m.cfg.Now())
		case ">":
			o.Shift(7, m.cfg.Now())
		case "<":
			o.Shift(-7, m.cfg.Now())
		case "n":
			now := m.cfg.Now()
			return m.finish(o.Select(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())))
		}
	case *overlay.Dropdown:
		switch key {
		case "tab":
			o.Move(1)
		case "shift+tab":
			o.Move(-1)
		default:
			if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(o.Options()) {
				return m.finish(o.Select(o.Options()[i-1].Value))
			}
		}
	}
	return m
}

// finish applies an overlay's commit, if any, and returns to normal mode.
func (m Model[T]) finish(c overlay.Commit, ok bool) Model[T] {
	switch {
	case !ok:
		m.grid.EndEdit()
	case m.grid.CommitOverlay(c):
		m.status = "saved"
	}
	m.ov, m.mode = nil, modeNormal
	return m
}

func (m Model[T]) toggleTheme() Model[T] {
	next := types.ThemeDark
	if m.cfg.Theme.Variant == types.ThemeDark {
		next = types.ThemeLight
	}
	th, err := theme.Build(next, m.cfg.Overrides)
	if err != nil {
		m.err = err
		return m
	}
	m.cfg.Theme, m.styles = th, newStyles(th)
	m.status = "theme: " + next
	return m
}

func (m Model[T]) refresh() Model[T] {
	if m.cfg.Refresh == nil {
		return m
	}
	m.cfg.Seed++
	if err := m.grid.Replace(m.cfg.Refresh(m.cfg.Seed)); err != nil {
		m.err = err
		return m
	}
	m.status = fmt.Sprintf("seed %d", m.cfg.Seed)
	return m
}

// position returns the visible position of the row with the given ID.
func (m Model[T]) position(id int) int {
	for i, r := range m.grid.VisibleRows() {
		if r.RowID() == id {
			return i
		}
	}
	return m.row
}

func (m Model[T]) bodyRows() int {
	return max(1, m.height-chromeLines)
}

// clamp keeps the cursor on the grid and scrolls it into view.
func (m Model[T]) clamp() Model[T] {
	n, ncols := m.grid.Len(), len(m.grid.Columns())
	m.row = max(0, min(m.row, n-1))
	m.col = max(0, min(m.col, ncols-1))

	body := m.bodyRows()
	if m.row < m.top {
		m.top = m.row
	}
	if m.row >= m.top+body {
		m.top = m.row - body + 1
	}
	m.top = max(0, min(m.top, n-body))

	frozen := m.frozen()
	if m.col >= frozen {
		m.scroll = max(m.scroll, frozen)
		if m.col < m.scroll {
			m.scroll = m.col
		}
		for m.scroll < m.col && !m.fits(m.scroll, m.col) {
			m.scroll++
		}
	}
	m.scroll = max(frozen, min(m.scroll, ncols-1))
	return m
}

func (m Model[T]) frozen() int {
	return max(0, min(m.cfg.Freeze, len(m.grid.Columns())))
}

// fits reports whether scrolling columns first..last fit beside the frozen
// columns.
func (m Model[T]) fits(first, last int) bool {
	cols := m.grid.Columns()
	w := m.markerWidth()
	for i := range m.frozen() {
		w += chars(cols[i]) + 1
	}
	for i := first; i <= last; i++ {
		w += chars(cols[i]) + 1
	}
	return w <= m.width
}

// visibleColumns returns the indices of the frozen columns followed by the
// scrolling columns that fit.
func (m Model[T]) visibleColumns() []int {
	cols := m.grid.Columns()
	frozen := m.frozen()
	out := make([]int, 0, len(cols))
	w := m.markerWidth()
	for i := range frozen {
		out = append(out, i)
		w += chars(cols[i]) + 1
	}
	for i := max(m.scroll, frozen); i < len(cols); i++ {
		w += chars(cols[i]) + 1
		if w > m.width && i > max(m.scroll, frozen) {
			break
		}
		out = append(out, i)
	}
	return out
}

func (m Model[T]) viewport() types.Viewport {
	vis := m.visibleColumns()
	scrolling := 0
	for _, i := range vis {
		if i >= m.frozen() {
			scrolling++
		}
	}
	return types.Viewport{
		FirstColumn: max(m.scroll, m.frozen()),
		ColumnCount: scrolling,
		FirstRow:    m.top,
		RowCount:    min(m.bodyRows(), max(0, m.grid.Len()-m.top)),
	}
}

func (m Model[T]) markerWidth() int {
	return len(strconv.Itoa(max(1, m.grid.Len()))) + 2
}

// chars converts a pixel width to terminal columns.
func chars(c types.Column) int {
	return max(minCellChars, c.Width/pxPerChar)
}
