package view

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

type row struct {
	id     int
	name   string
	score  *float64
	joined *time.Time
	active bool
}

func (r row) RowID() int { return r.id }

func (r row) Field(col string) any {
	switch col {
	case "name":
		return r.name
	case "score":
		if r.score == nil {
			return nil
		}
		return *r.score
	case "joined":
		if r.joined == nil {
			return nil
		}
		return *r.joined
	case "active":
		return r.active
	}
	return nil
}

// rowResolver edits only the name column and only with text edits.
type rowResolver struct{}

func (rowResolver) Resolve(r row, col string) types.CellValue {
	if col == "name" {
		return types.TextCell{Data: r.name, Display: r.name}
	}
	return types.TextCell{}
}

func (rowResolver) ApplyEdit(r row, col string, edit types.CellValue) row {
	t, ok := edit.(types.TextCell)
	if col != "name" || !ok {
		return r
	}
	r.name = t.Data
	return r
}

var testColumns = []types.Column{
	{ID: "name", Title: "Name", Width: 100, Type: types.ColumnText, Editable: true},
	{ID: "score", Title: "Score", Width: 80, Type: types.ColumnNumber},
	{ID: "joined", Title: "Joined", Width: 120, Type: types.ColumnDate},
	{ID: "active", Title: "Active", Width: 60, Type: types.ColumnBoolean},
}

func num(v float64) *float64 { return &v }

func day(d int) *time.Time {
	t := time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newController(t *testing.T, rows []row, opts ...Option[row]) *Controller[row] {
	t.Helper()
	c, err := New[row](rows, testColumns, rowResolver{}, opts...)
	require.NoError(t, err)
	return c
}

func visibleIDs(c *Controller[row]) []int {
	var ids []int
	for _, r := range c.VisibleRows() {
		ids = append(ids, r.id)
	}
	return ids
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New[row]([]row{{id: 1}, {id: 1}}, testColumns, rowResolver{})
	assert.ErrorIs(t, err, types.ErrDuplicateID)

	_, err = New[row](nil, []types.Column{{ID: "x", Width: 10, Type: types.ColumnText}}, rowResolver{})
	assert.ErrorIs(t, err, types.ErrWidthTooSmall)
}

func TestSortNullsLastAndStable(t *testing.T) {
	rows := []row{
		{id: 1, name: "b", score: num(2)},
		{id: 2, name: "a"},
		{id: 3, name: "c", score: num(1)},
		{id: 4, name: "d", score: num(2)},
		{id: 5, name: "e"},
	}

	tests := []struct {
		name   string
		column string
		dir    types.Direction
		want   []int
	}{
		{name: "ascending", column: "score", dir: types.Ascending, want: []int{3, 1, 4, 2, 5}},
		{name: "descending", column: "score", dir: types.Descending, want: []int{1, 4, 3, 2, 5}},
		{name: "cleared", column: "score", dir: types.DirectionNone, want: []int{1, 2, 3, 4, 5}},
		{name: "no column", column: "", dir: types.Ascending, want: []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, rows)
			require.NoError(t, c.SetSort("name", types.Descending))
			require.NoError(t, c.SetSort(tt.column, tt.dir))
			assert.Equal(t, tt.want, visibleIDs(c))
		})
	}
}

func TestSortEmptyColumnClears(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "a"}, {id: 2, name: "b"}})
	require.NoError(t, c.SetSort("name", types.Descending))
	require.NoError(t, c.SetSort("", types.Ascending))
	assert.Equal(t, types.SortSpec{}, c.Sort())
	assert.False(t, c.Sort().Active())
}

func TestSortByType(t *testing.T) {
	rows := []row{
		{id: 1, name: "banana", joined: day(3), active: true},
		{id: 2, name: "Apple", joined: day(1), active: false},
		{id: 3, name: "cherry", active: true},
		{id: 4, name: "apricot", joined: day(2), active: false},
	}

	tests := []struct {
		column string
		dir    types.Direction
		want   []int
	}{
		{column: "name", dir: types.Ascending, want: []int{2, 4, 1, 3}},
		{column: "name", dir: types.Descending, want: []int{3, 1, 4, 2}},
		{column: "joined", dir: types.Ascending, want: []int{2, 4, 1, 3}},
		{column: "joined", dir: types.Descending, want: []int{1, 4, 2, 3}},
		{column: "active", dir: types.Ascending, want: []int{2, 4, 1, 3}},
		{column: "active", dir: types.Descending, want: []int{1, 3, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.column+"/"+string(tt.dir), func(t *testing.T) {
			c := newController(t, rows)
			require.NoError(t, c.SetSort(tt.column, tt.dir))
			assert.Equal(t, tt.want, visibleIDs(c))
		})
	}
}

func TestSortNeverReordersStore(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "z"}, {id: 2, name: "a"}})
	require.NoError(t, c.SetSort("name", types.Ascending))
	assert.Equal(t, []int{2, 1}, visibleIDs(c))

	var stored []int
	for _, r := range c.Rows() {
		stored = append(stored, r.id)
	}
	assert.Equal(t, []int{1, 2}, stored)
}

func TestSortUnknownColumn(t *testing.T) {
	c := newController(t, []row{{id: 1}})
	assert.ErrorIs(t, c.SetSort("nope", types.Ascending), types.ErrUnknownColumn)
	assert.Equal(t, types.SortSpec{}, c.Sort())
	assert.NoError(t, c.SetSort("nope", types.DirectionNone))
}

func TestDeleteUnderSort(t *testing.T) {
	c := newController(t, []row{
		{id: 1, score: num(1)},
		{id: 2, score: num(2)},
		{id: 3, score: num(3)},
	})
	require.NoError(t, c.SetSort("score", types.Descending))
	require.Equal(t, []int{3, 2, 1}, visibleIDs(c))

	assert.Equal(t, 1, c.DeleteRows([]int{0}))
	assert.Equal(t, []int{2, 1}, visibleIDs(c))
}

func TestDeleteRowsIgnoresOutOfRange(t *testing.T) {
	c := newController(t, []row{{id: 1}, {id: 2}})
	assert.Zero(t, c.DeleteRows(nil))
	assert.Equal(t, 1, c.DeleteRows([]int{1, 7, -1}))
	assert.Equal(t, []int{1}, visibleIDs(c))
}

func TestDeleteSelected(t *testing.T) {
	c := newController(t, []row{{id: 1}, {id: 2}, {id: 3}, {id: 4}})
	c.SetSelection(0, 2, 9)
	assert.Equal(t, types.Selection{Rows: []int{0, 2}}, c.Selection())

	assert.Equal(t, 2, c.DeleteSelected())
	assert.Equal(t, []int{2, 4}, visibleIDs(c))
	assert.True(t, c.Selection().Empty())
}

func TestAddRow(t *testing.T) {
	blank := func(id int) row { return row{id: id} }

	t.Run("next id", func(t *testing.T) {
		c := newController(t, []row{{id: 3}, {id: 7}, {id: 5}}, WithBlankRow[row](blank))
		r, ok := c.AddRow()
		require.True(t, ok)
		assert.Equal(t, 8, r.id)
		assert.Equal(t, []int{3, 7, 5, 8}, visibleIDs(c))
	})

	t.Run("empty store", func(t *testing.T) {
		c := newController(t, nil, WithBlankRow[row](blank))
		r, ok := c.AddRow()
		require.True(t, ok)
		assert.Equal(t, 1, r.id)
	})

	t.Run("no factory", func(t *testing.T) {
		c := newController(t, []row{{id: 1}})
		_, ok := c.AddRow()
		assert.False(t, ok)
		assert.Equal(t, 1, c.Len())
	})
}

func TestResizeColumnCopiesOnWrite(t *testing.T) {
	c := newController(t, []row{{id: 1}})
	before := c.Columns()

	require.True(t, c.ResizeColumn(before[1], 150, 1))
	after := c.Columns()

	assert.Equal(t, 80, before[1].Width, "slice held by caller is unchanged")
	assert.Equal(t, 150, after[1].Width)
	assert.Equal(t, before[0], after[0])

	require.True(t, c.ResizeColumn(after[0], 5, 0))
	assert.Equal(t, types.MinColumnWidth, c.Columns()[0].Width)

	assert.False(t, c.ResizeColumn(after[0], 100, 9))
}

func TestCellAt(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "Ada"}})

	tests := []struct {
		name string
		item types.Item
		want types.CellValue
	}{
		{name: "in range", item: types.Item{Col: 0, Row: 0}, want: types.TextCell{Data: "Ada", Display: "Ada"}},
		{name: "row past end", item: types.Item{Col: 0, Row: 1}, want: types.LoadingCell{}},
		{name: "negative row", item: types.Item{Col: 0, Row: -1}, want: types.LoadingCell{}},
		{name: "column past end", item: types.Item{Col: 4, Row: 0}, want: types.LoadingCell{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CellAt(tt.item))
		})
	}
}

func TestCellsForSelection(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "a"}, {id: 2, name: "b"}})
	got := c.CellsForSelection(types.CellRange{Col: 0, Row: 1, Width: 2, Height: 2})
	want := [][]types.CellValue{
		{types.TextCell{Data: "b", Display: "b"}, types.TextCell{}},
		{types.LoadingCell{}, types.LoadingCell{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CellsForSelection mismatch (-want +got):\n%s", diff)
	}
}

func TestEditCell(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "a"}, {id: 2, name: "b"}})
	require.NoError(t, c.SetSort("name", types.Descending))
	v := c.Version()

	assert.True(t, c.EditCell(types.Item{Col: 0, Row: 0}, types.TextCell{Data: "z"}))
	r, _ := c.RowAt(0)
	assert.Equal(t, 2, r.id)
	assert.Equal(t, "z", r.name)
	assert.NotEqual(t, v, c.Version())

	v = c.Version()
	assert.False(t, c.EditCell(types.Item{Col: 0, Row: 0}, types.BooleanCell{Data: true}), "mismatched kind")
	assert.False(t, c.EditCell(types.Item{Col: 1, Row: 0}, types.TextCell{Data: "x"}), "column not editable")
	assert.False(t, c.EditCell(types.Item{Col: 0, Row: 5}, types.TextCell{Data: "x"}), "row out of range")
	assert.False(t, c.EditCell(types.Item{Col: 9, Row: 0}, types.TextCell{Data: "x"}), "column out of range")
	assert.Equal(t, v, c.Version())
}

func TestCommitOverlay(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "a"}, {id: 2, name: "b"}})
	o := overlay.NewDropdown(1, "name", types.Tags{}, nil)

	stale := overlay.Commit{Session: o.Session(), RowID: 1, ColumnID: "name", Edit: types.TextCell{Data: "x"}}
	assert.False(t, c.CommitOverlay(stale), "no open session")

	c.BeginEdit(o)
	require.NoError(t, c.SetSort("name", types.Descending))
	assert.True(t, c.CommitOverlay(stale))
	got, err := c.store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "x", got.name)

	assert.False(t, c.CommitOverlay(stale), "session already committed")

	c.BeginEdit(o)
	c.EndEdit()
	assert.False(t, c.CommitOverlay(stale))

	c.BeginEdit(o)
	c.DeleteRows([]int{0, 1})
	assert.False(t, c.CommitOverlay(stale), "row deleted")
}

func TestSelectionClearedOnSortAndReplace(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "b"}, {id: 2, name: "a"}})
	c.ToggleRow(1)
	c.ToggleRow(5)
	assert.Equal(t, []int{1}, c.Selection().Rows)

	require.NoError(t, c.SetSort("name", types.Ascending))
	assert.True(t, c.Selection().Empty())

	c.ToggleRow(0)
	c.ToggleRow(0)
	assert.True(t, c.Selection().Empty())

	c.ToggleRow(0)
	require.NoError(t, c.Replace([]row{{id: 9}}))
	assert.True(t, c.Selection().Empty())
	assert.Equal(t, []int{9}, visibleIDs(c))
}

func TestSelectionFollowsRowsUnderSort(t *testing.T) {
	blank := func(id int) row { return row{id: id} }

	tests := []struct {
		name        string
		change      func(c *Controller[row])
		wantVisible []int
	}{
		{
			name: "append moves the selected row",
			change: func(c *Controller[row]) {
				_, ok := c.AddRow()
				require.True(t, ok)
			},
			wantVisible: []int{3, 2},
		},
		{
			name: "edit moves the selected row",
			change: func(c *Controller[row]) {
				require.True(t, c.EditCell(types.Item{Col: 0, Row: 1}, types.TextCell{Data: "a"}))
			},
			wantVisible: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, []row{{id: 1, name: "b"}, {id: 2, name: "c"}}, WithBlankRow[row](blank))
			require.NoError(t, c.SetSort("name", types.Ascending))
			c.SetSelection(0)
			r, _ := c.RowAt(0)
			require.Equal(t, 1, r.id)

			tt.change(c)
			sel := c.Selection()
			require.Len(t, sel.Rows, 1)
			r, _ = c.RowAt(sel.Rows[0])
			assert.Equal(t, 1, r.id, "selection stays on the selected row")

			assert.Equal(t, 1, c.DeleteSelected())
			assert.Equal(t, tt.wantVisible, visibleIDs(c))
			assert.True(t, c.Selection().Empty())
		})
	}
}

func TestColumnValuesFollowVisibleOrder(t *testing.T) {
	c := newController(t, []row{{id: 1, score: num(3)}, {id: 2}, {id: 3, score: num(1)}})
	require.NoError(t, c.SetSort("score", types.Ascending))
	assert.Equal(t, []any{1.0, 3.0, nil}, c.ColumnValues("score"))
}

func TestSubscribe(t *testing.T) {
	c := newController(t, []row{{id: 1, name: "a"}}, WithBlankRow[row](func(id int) row { return row{id: id} }))

	var got []EventKind
	unsubscribe := c.Subscribe(func(e Event) { got = append(got, e.Kind) })

	require.NoError(t, c.SetSort("name", types.Ascending))
	require.NoError(t, c.SetSort("name", types.Ascending))
	c.AddRow()
	c.ResizeColumn(testColumns[0], 90, 0)
	c.SetViewport(types.Viewport{FirstRow: 1, RowCount: 3})
	c.SetViewport(types.Viewport{FirstRow: 1, RowCount: 3})
	c.ToggleRow(0)
	unsubscribe()
	c.AddRow()

	assert.Equal(t, []EventKind{EventSort, EventRows, EventColumns, EventViewport, EventSelection}, got)
}

func TestEmployeeGrid(t *testing.T) {
	rows := employee.Generate(20, 42)
	c, err := New[employee.Employee](rows, employee.Columns(), employee.NewResolver(employee.EditableColumns()...), WithBlankRow[employee.Employee](employee.Blank))
	require.NoError(t, err)

	require.NoError(t, c.SetSort(employee.ColSalary, types.Descending))
	visible := c.VisibleRows()
	seenNil := false
	for _, r := range visible {
		if r.Salary == nil {
			seenNil = true
			continue
		}
		assert.False(t, seenNil, "a salary follows an empty salary")
	}

	added, ok := c.AddRow()
	require.True(t, ok)
	assert.Equal(t, 21, added.ID)

	col := types.ColumnIndex(c.Columns(), employee.ColFirstName)
	first, _ := c.RowAt(0)
	before := first.FirstName
	assert.False(t, c.EditCell(types.Item{Col: col, Row: 0}, types.BooleanCell{Data: true}))
	after, _ := c.RowAt(0)
	assert.Equal(t, before, after.FirstName)
}
