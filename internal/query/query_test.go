package query

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/view"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

func newGrid(t *testing.T, rows []employee.Employee) *view.Controller[employee.Employee] {
	t.Helper()
	grid, err := view.New[employee.Employee](rows, employee.Columns(), employee.NewResolver())
	require.NoError(t, err)
	return grid
}

func TestRun(t *testing.T) {
	rows := employee.Generate(5, 0)
	var total float64
	for _, r := range rows {
		if r.Salary != nil {
			total += *r.Salary
		}
	}

	tests := []struct {
		name string
		sql  string
		want [][]any
	}{
		{"count", "SELECT count(*) FROM grid", [][]any{{int64(5)}}},
		{"text column", `SELECT firstName FROM grid WHERE _row = 2`, [][]any{{rows[1].FirstName}}},
		{"number column", "SELECT sum(salary) FROM grid", [][]any{{total}}},
		{"date as iso text", "SELECT hiredAt FROM grid WHERE _row = 1", [][]any{{"2024-01-12"}}},
		{"empty result", "SELECT _row FROM grid WHERE _row > 100", [][]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run[employee.Employee](context.Background(), newGrid(t, rows), tt.sql)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, res.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunBooleans(t *testing.T) {
	rows := employee.Generate(9, 0)
	want := int64(0)
	for _, r := range rows {
		if r.OptIn {
			want++
		}
	}
	res, err := Run[employee.Employee](context.Background(), newGrid(t, rows), "SELECT count(*) FROM grid WHERE optIn = 1")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{want}}, res.Rows)
}

func TestRunFollowsVisibleOrder(t *testing.T) {
	grid := newGrid(t, employee.Generate(6, 0))
	require.NoError(t, grid.SetSort(employee.ColEmail, types.Descending))

	res, err := Run[employee.Employee](context.Background(), grid, "SELECT _row FROM grid ORDER BY _pos")
	require.NoError(t, err)

	var want [][]any
	for _, r := range grid.VisibleRows() {
		want = append(want, []any{int64(r.ID)})
	}
	assert.Equal(t, want, res.Rows)
}

func TestRunNullsForEmptyCells(t *testing.T) {
	rows := employee.Generate(2, 0)
	rows[0].Salary = nil
	rows[0].HiredAt = nil
	rows[0].Stage = ""

	res, err := Run[employee.Employee](context.Background(), newGrid(t, rows),
		"SELECT salary IS NULL, hiredAt IS NULL, stage IS NULL FROM grid WHERE _row = 1")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), int64(1), int64(1)}}, res.Rows)
}

func TestRunColumns(t *testing.T) {
	res, err := Run[employee.Employee](context.Background(), newGrid(t, employee.Generate(1, 0)),
		"SELECT _row AS id, email FROM grid")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email"}, res.Columns)
	assert.Equal(t, [][]string{{"1", employee.Generate(1, 0)[0].Email}}, res.Strings())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr error
	}{
		{"empty", "   ", ErrEmptyQuery},
		{"syntax", "SELEC nope", nil},
		{"write rejected", "DELETE FROM grid", nil},
		{"unknown table", "SELECT * FROM people", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run[employee.Employee](context.Background(), newGrid(t, employee.Generate(3, 0)), tt.sql)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOpenEmptyGrid(t *testing.T) {
	d, err := Open[employee.Employee](context.Background(), newGrid(t, nil))
	require.NoError(t, err)
	defer d.Close()

	res, err := d.Query(context.Background(), "SELECT count(*) FROM grid")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(0)}}, res.Rows)

	// The snapshot survives repeated queries on one DB.
	res, err = d.Query(context.Background(), "SELECT count(*) FROM grid")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(0)}}, res.Rows)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"grid"`, quote("grid"))
	assert.Equal(t, `"a""b"`, quote(`a"b`))
}
