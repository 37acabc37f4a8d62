package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

const helpLine = "↑↓←→ move  enter edit  space toggle  s/S sort  c unsort  v select  d delete  a add  +/- width  f footer  t theme  r refresh  q quit"

// View implements tea.Model.
func (m Model[T]) View() string {
	cols := m.grid.Columns()
	vis := m.visibleColumns()
	sort := m.grid.Sort()
	sel := m.grid.Selection()
	mw := m.markerWidth()

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(m.groupLine(cols, vis, mw))

	head := []string{m.styles.header.Render(fit("#", mw, true))}
	for _, i := range vis {
		c := cols[i]
		title := c.Title
		style := m.styles.header
		if sort.Active() && sort.ColumnID == c.ID {
			style = m.styles.sorted
			title += " " + arrow(sort.Direction)
		}
		head = append(head, style.Render(fit(title, chars(c), false)))
	}
	line(strings.Join(head, " "))
	line(m.styles.dim.Render(strings.Repeat("─", min(m.width, m.rowWidth(cols, vis, mw)))))

	end := min(m.grid.Len(), m.top+m.bodyRows())
	for r := m.top; r < end; r++ {
		marker := fmt.Sprintf("%d", r+1)
		if sel.Contains(r) {
			marker = "✓"
		}
		parts := []string{m.styles.marker.Render(fit(marker, mw, true))}
		for _, i := range vis {
			parts = append(parts, m.cellView(cols[i], types.Item{Col: i, Row: r}, sel.Contains(r)))
		}
		line(strings.Join(parts, " "))
	}
	for r := end; r < m.top+m.bodyRows(); r++ {
		line("")
	}

	foot := []string{m.styles.footer.Render(fit("Σ", mw, true))}
	for _, i := range vis {
		fc := m.cfg.Footer.Cell(cols[i].ID)
		style := m.styles.footer
		if !fc.Present {
			style = m.styles.prompt
		}
		foot = append(foot, style.Render(fit(fc.Text(), chars(cols[i]), false)))
	}
	line(strings.Join(foot, " "))

	line(m.statusLine(cols, sort, sel))
	b.WriteString(m.bottomLine())
	return b.String()
}

// groupLine labels each run of adjacent columns sharing a group once.
func (m Model[T]) groupLine(cols []types.Column, vis []int, mw int) string {
	parts := []string{m.styles.group.Render(strings.Repeat(" ", mw))}
	prev := ""
	for _, i := range vis {
		label := cols[i].Group
		if label == prev {
			label = ""
		} else {
			prev = label
		}
		parts = append(parts, m.styles.group.Render(fit(label, chars(cols[i]), false)))
	}
	return strings.Join(parts, " ")
}

func (m Model[T]) cellView(col types.Column, item types.Item, selected bool) string {
	cell := m.grid.CellAt(item)
	w := chars(col)
	text := m.cfg.Registry.CellText(cell, w)
	_, right := cell.(types.NumberCell)

	style := m.styles.cell
	switch {
	case item == m.Cursor():
		style = m.styles.cursor
	case selected:
		style = m.styles.selected
	case cell.Kind() == types.KindURI:
		style = m.styles.link
	}
	return style.Render(fit(text, w, right))
}

func (m Model[T]) statusLine(cols []types.Column, sort types.SortSpec, sel types.Selection) string {
	parts := []string{fmt.Sprintf("row %d/%d", min(m.row+1, m.grid.Len()), m.grid.Len())}
	if m.col < len(cols) {
		parts = append(parts, cols[m.col].Title)
	}
	if sort.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", sort.ColumnID, sort.Direction))
	}
	if !sel.Empty() {
		parts = append(parts, fmt.Sprintf("%d selected", len(sel.Rows)))
	}
	s := m.styles.status.Render(strings.Join(parts, " · "))
	switch {
	case m.err != nil:
		s += "  " + m.styles.err.Render(m.err.Error())
	case m.status != "":
		s += "  " + m.styles.dim.Render(m.status)
	}
	return s
}

// bottomLine shows the open editor, or the key help.
func (m Model[T]) bottomLine() string {
	switch m.mode {
	case modeText:
		return m.input.View()
	case modeOverlay:
		switch o := m.ov.(type) {
		case *overlay.DatePicker:
			return fmt.Sprintf("%s  %s",
				m.styles.picked.Render(types.FormatDate(o.Staged())),
				m.styles.dim.Render("+/- day  </> week  n today  enter ok  del clear  esc done"))
		case *overlay.Dropdown:
			opts := make([]string, 0, len(o.Options()))
			for i, opt := range o.Options() {
				style := m.styles.option
				if opt.Value == o.Staged() {
					style = m.styles.picked
				}
				opts = append(opts, style.Render(fmt.Sprintf("%d %s", i+1, opt.Label)))
			}
			return lipgloss.JoinHorizontal(lipgloss.Top, opts...) + "  " +
				m.styles.dim.Render("tab next  enter ok  del clear  esc done")
		}
	}
	return m.styles.dim.Render(ansi.Truncate(helpLine, m.width, "…"))
}

func (m Model[T]) rowWidth(cols []types.Column, vis []int, mw int) int {
	w := mw
	for _, i := range vis {
		w += chars(cols[i]) + 1
	}
	return w
}

// fit truncates s to w columns and pads it, left or right aligned.
func fit(s string, w int, right bool) string {
	s = ansi.Truncate(s, w, "…")
	gap := w - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func arrow(d types.Direction) string {
	if d == types.Descending {
		return "▼"
	}
	return "▲"
}
