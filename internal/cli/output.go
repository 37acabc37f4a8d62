package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// maxCellWidth caps a text column so one long value cannot push the rest
// off the screen.
const maxCellWidth = 32

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows as aligned text columns. The header is bold when w is
// a terminal, and the table is cut at the terminal's width.
type table struct {
	header []string
	rows   [][]string
}

func (t table) write(w io.Writer) error {
	styled, width := terminalOf(w)
	widths := t.widths()

	bold := lipgloss.NewStyle().Bold(true)
	line := func(cells []string, header bool) string {
		var b strings.Builder
		for i, c := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(runewidth.FillRight(runewidth.Truncate(c, widths[i], "…"), widths[i]))
		}
		s := strings.TrimRight(b.String(), " ")
		if width > 0 {
			s = runewidth.Truncate(s, width, "")
		}
		if header && styled {
			s = bold.Render(s)
		}
		return s + "\n"
	}

	if _, err := io.WriteString(w, line(t.header, true)); err != nil {
		return err
	}
	for _, r := range t.rows {
		if _, err := io.WriteString(w, line(r, false)); err != nil {
			return err
		}
	}
	return nil
}

func (t table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxCellWidth)
	}
	return widths
}

// terminalOf reports whether w is a terminal and, if so, its width.
func terminalOf(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(f) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, width
}
