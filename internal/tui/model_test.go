package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/griddle/internal/aggregate"
	"github.com/mesh-intelligence/griddle/internal/cells"
	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/internal/view"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

type model = Model[employee.Employee]

func newModel(t *testing.T, rows int) (model, *view.Controller[employee.Employee]) {
	t.Helper()
	grid, err := view.New[employee.Employee](
		employee.Generate(rows, 0),
		employee.Columns(),
		employee.NewResolver(),
		view.WithBlankRow[employee.Employee](employee.Blank),
	)
	require.NoError(t, err)
	m := New[employee.Employee](grid, Config[employee.Employee]{
		Theme:    theme.Light(),
		Registry: cells.Default(employee.Dropdowns()),
		Footer:   aggregate.NewFooter(grid, grid.Columns()),
		Freeze:   2,
		Refresh:  func(seed int) []employee.Employee { return employee.Generate(rows, seed) },
		Now:      func() time.Time { return time.Date(2025, time.March, 3, 15, 4, 0, 0, time.UTC) },
	})
	return m, grid
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"delete":    tea.KeyDelete,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+u":    tea.KeyCtrlU,
	"space":     tea.KeySpace,
}

func keyMsg(k string) tea.KeyMsg {
	if kt, ok := namedKeys[k]; ok {
		if kt == tea.KeySpace {
			return tea.KeyMsg{Type: kt, Runes: []rune{' '}}
		}
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(model)
	}
	return m
}

// moveTo puts the cursor on the named employee column.
func moveTo(t *testing.T, m model, columnID string) model {
	t.Helper()
	idx := types.ColumnIndex(employee.Columns(), columnID)
	require.GreaterOrEqual(t, idx, 0)
	for range idx {
		m = press(m, "right")
	}
	require.Equal(t, idx, m.Cursor().Col)
	return m
}

func TestSortKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want types.SortSpec
	}{
		{"ascending", []string{"s"}, types.SortSpec{ColumnID: employee.ColEmail, Direction: types.Ascending}},
		{"descending", []string{"S"}, types.SortSpec{ColumnID: employee.ColEmail, Direction: types.Descending}},
		{"cleared", []string{"s", "c"}, types.SortSpec{}},
		{"second column", []string{"right", "S"}, types.SortSpec{ColumnID: employee.ColFirstName, Direction: types.Descending}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, grid := newModel(t, 10)
			press(m, tt.keys...)
			assert.Equal(t, tt.want, grid.Sort())
		})
	}
}

func TestCursorMovementClamps(t *testing.T) {
	m, _ := newModel(t, 3)
	m = press(m, "up", "left")
	assert.Equal(t, types.Item{}, m.Cursor())

	m = press(m, "down", "down", "down", "down")
	assert.Equal(t, 2, m.Cursor().Row)

	m = press(m, "G", "g")
	assert.Equal(t, 0, m.Cursor().Row)

	for range 20 {
		m = press(m, "right")
	}
	assert.Equal(t, len(employee.Columns())-1, m.Cursor().Col)
}

func TestToggleBoolean(t *testing.T) {
	m, grid := newModel(t, 5)
	before, _ := grid.RowAt(0)

	m = moveTo(t, m, employee.ColOptIn)
	press(m, " ")
	after, _ := grid.RowAt(0)
	assert.Equal(t, !before.OptIn, after.OptIn)
}

func TestTextEdit(t *testing.T) {
	m, grid := newModel(t, 5)
	before, _ := grid.RowAt(0)

	m = moveTo(t, m, employee.ColFirstName)
	m = press(m, "enter")
	require.Equal(t, modeText, m.mode)
	assert.Equal(t, before.FirstName, m.input.Value())

	m = press(m, "x", "enter")
	assert.Equal(t, modeNormal, m.mode)
	after, _ := grid.RowAt(0)
	assert.Equal(t, before.FirstName+"x", after.FirstName)
}

func TestTextEditEscapeDiscards(t *testing.T) {
	m, grid := newModel(t, 5)
	before, _ := grid.RowAt(0)

	m = moveTo(t, m, employee.ColLastName)
	m = press(m, "enter", "z", "esc")
	assert.Equal(t, modeNormal, m.mode)
	after, _ := grid.RowAt(0)
	assert.Equal(t, before.LastName, after.LastName)
}

func TestNumberEdit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *float64
		wantErr bool
	}{
		{"plain", "1234.5", ptr(1234.5), false},
		{"grouped", "1,500", ptr(1500.0), false},
		{"empty clears", "", nil, false},
		{"garbage", "abc", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, grid := newModel(t, 5)
			before, _ := grid.RowAt(0)

			m = moveTo(t, m, employee.ColSalary)
			m = press(m, "enter")
			require.Equal(t, modeText, m.mode)
			m.input.SetValue(tt.input)
			m = press(m, "enter")

			after, _ := grid.RowAt(0)
			if tt.wantErr {
				assert.Error(t, m.err)
				assert.Equal(t, before.Salary, after.Salary)
				return
			}
			assert.NoError(t, m.err)
			assert.Equal(t, tt.want, after.Salary)
		})
	}
}

func TestReadOnlyColumn(t *testing.T) {
	m, _ := newModel(t, 5)
	m = moveTo(t, m, employee.ColManager)
	m = press(m, "enter")
	assert.Equal(t, modeNormal, m.mode)
	assert.Contains(t, m.status, "read-only")
}

func TestDateOverlay(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want func(before *time.Time) *time.Time
	}{
		{
			name: "escape commits staged",
			keys: []string{"+", "+", "esc"},
			want: func(b *time.Time) *time.Time { return ptr(b.AddDate(0, 0, 2)) },
		},
		{
			name: "week back then confirm",
			keys: []string{"<", "enter"},
			want: func(b *time.Time) *time.Time { return ptr(b.AddDate(0, 0, -7)) },
		},
		{
			name: "delete clears",
			keys: []string{"+", "delete"},
			want: func(*time.Time) *time.Time { return nil },
		},
		{
			name: "today",
			keys: []string{"n"},
			want: func(*time.Time) *time.Time { return ptr(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)) },
		},
		{
			name: "moving away commits",
			keys: []string{"-", "down"},
			want: func(b *time.Time) *time.Time { return ptr(b.AddDate(0, 0, -1)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, grid := newModel(t, 5)
			before, _ := grid.RowAt(0)
			require.NotNil(t, before.HiredAt)

			m = moveTo(t, m, employee.ColHiredAt)
			m = press(m, "enter")
			require.Equal(t, modeOverlay, m.mode)
			assert.Contains(t, m.View(), types.FormatDate(before.HiredAt))

			m = press(m, tt.keys...)
			assert.Equal(t, modeNormal, m.mode)
			after, _ := grid.RowAt(0)
			assert.Equal(t, tt.want(before.HiredAt), after.HiredAt)
		})
	}
}

func TestDateOverlayCommitsByRowID(t *testing.T) {
	m, grid := newModel(t, 5)
	target, _ := grid.RowAt(0)

	m = moveTo(t, m, employee.ColHiredAt)
	m = press(m, "enter", "+")
	// A re-sort while the overlay is open must not redirect the write.
	require.NoError(t, grid.SetSort(employee.ColEmail, types.Descending))
	press(m, "enter")

	for _, r := range grid.Rows() {
		if r.ID == target.ID {
			assert.Equal(t, target.HiredAt.AddDate(0, 0, 1), *r.HiredAt)
			continue
		}
		orig := employee.Generate(5, 0)[r.ID-1]
		assert.Equal(t, orig.HiredAt, r.HiredAt, "row %d", r.ID)
	}
}

func TestDropdownOverlay(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"digit selects", []string{"2"}, employee.StageOptions[1].Value},
		{"delete clears", []string{"delete"}, ""},
		{"ctrl+c closes without commit", []string{"tab", "ctrl+c"}, "unchanged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, grid := newModel(t, 5)
			before, _ := grid.RowAt(0)

			m = moveTo(t, m, employee.ColStage)
			m = press(m, "enter")
			require.Equal(t, modeOverlay, m.mode)
			for _, o := range employee.StageOptions {
				assert.Contains(t, m.View(), o.Label)
			}

			m = press(m, tt.keys...)
			assert.Equal(t, modeNormal, m.mode)
			after, _ := grid.RowAt(0)
			want := tt.want
			if want == "unchanged" {
				want = before.Stage
			}
			assert.Equal(t, want, after.Stage)
		})
	}
}

func TestDropdownTabCycles(t *testing.T) {
	m, grid := newModel(t, 5)
	m = moveTo(t, m, employee.ColStage)
	m = press(m, "enter")

	start := 0
	before, _ := grid.RowAt(0)
	for i, o := range employee.StageOptions {
		if o.Value == before.Stage {
			start = i
		}
	}
	press(m, "tab", "enter")
	after, _ := grid.RowAt(0)
	assert.Equal(t, employee.StageOptions[(start+1)%len(employee.StageOptions)].Value, after.Stage)
}

func TestAddAndDeleteRows(t *testing.T) {
	m, grid := newModel(t, 4)

	m = press(m, "a")
	require.Equal(t, 5, grid.Len())
	r, ok := grid.RowAt(m.Cursor().Row)
	require.True(t, ok)
	assert.Equal(t, 5, r.ID)

	m = press(m, "d")
	assert.Equal(t, 4, grid.Len())

	m = press(m, "g", "v", "down", "v")
	assert.Equal(t, []int{0, 1}, grid.Selection().Rows)
	m = press(m, "d")
	assert.Equal(t, 2, grid.Len())
	assert.True(t, grid.Selection().Empty())
	assert.Equal(t, "deleted 2", m.status)
}

func TestResizeKeys(t *testing.T) {
	m, grid := newModel(t, 2)
	w := grid.Columns()[0].Width

	m = press(m, "+")
	assert.Equal(t, w+resizeStepPx, grid.Columns()[0].Width)

	for range 40 {
		m = press(m, "-")
	}
	assert.Equal(t, types.MinColumnWidth, grid.Columns()[0].Width)
}

func TestFooterCycle(t *testing.T) {
	m, _ := newModel(t, 5)
	m = moveTo(t, m, employee.ColSalary)
	m = press(m, "f")
	kind := m.cfg.Footer.Selected(employee.ColSalary)
	assert.Equal(t, aggregate.CountEmpty, kind)
	assert.Equal(t, "footer: "+aggregate.Label(kind), m.status)
	assert.True(t, m.cfg.Footer.Cell(employee.ColSalary).Present)
}

func TestThemeToggle(t *testing.T) {
	m, _ := newModel(t, 2)
	m = press(m, "t")
	assert.Equal(t, types.ThemeDark, m.cfg.Theme.Variant)
	m = press(m, "t")
	assert.Equal(t, types.ThemeLight, m.cfg.Theme.Variant)
}

func TestRefreshKeepsSort(t *testing.T) {
	m, grid := newModel(t, 6)
	m = press(m, "S")
	before := grid.Rows()

	m = press(m, "r")
	assert.Equal(t, 1, m.cfg.Seed)
	assert.NotEqual(t, before, grid.Rows())
	assert.Equal(t, types.Descending, grid.Sort().Direction)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, 2)
	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := m.Update(keyMsg(k))
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestWindowSizeReportsViewport(t *testing.T) {
	m, grid := newModel(t, 50)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 16})
	m = next.(model)

	vp := grid.Viewport()
	assert.Equal(t, 0, vp.FirstRow)
	assert.Equal(t, 16-chromeLines, vp.RowCount)
	assert.Equal(t, 2, vp.FirstColumn)
	assert.Positive(t, vp.ColumnCount)

	m = press(m, "G")
	vp = grid.Viewport()
	assert.Equal(t, 50-vp.RowCount, vp.FirstRow)
}

func TestHorizontalScrollKeepsFrozen(t *testing.T) {
	m, _ := newModel(t, 3)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 20})
	m = next.(model)

	m = moveTo(t, m, employee.ColStage)
	vis := m.visibleColumns()
	assert.Equal(t, []int{0, 1}, vis[:2])
	assert.Contains(t, vis, types.ColumnIndex(employee.Columns(), employee.ColStage))
	assert.NotContains(t, vis, 2)
}

func TestView(t *testing.T) {
	m, _ := newModel(t, 3)
	m = press(m, "s")
	out := m.View()

	assert.Contains(t, out, "Email ▲")
	assert.Contains(t, out, "First name")
	assert.Contains(t, out, aggregate.AddPrompt[:5])
	assert.Contains(t, out, "row 1/3")
	assert.Contains(t, out, "sort email asc")
}

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		w     int
		right bool
		want  string
	}{
		{"pad left aligned", "ab", 4, false, "ab  "},
		{"pad right aligned", "ab", 4, true, "  ab"},
		{"truncate", "abcdef", 4, false, "abc…"},
		{"exact", "abcd", 4, false, "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fit(tt.s, tt.w, tt.right))
		})
	}
}

func ptr[V any](v V) *V { return &v }
