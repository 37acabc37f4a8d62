// Package query runs ad-hoc SQL over a grid. The visible rows are loaded, in
// visible order, into a table of an in-memory SQLite database that lives only
// as long as the DB value; nothing is written to disk.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Table is the name the visible rows are loaded under.
const Table = "grid"

// Extra columns added to every loaded row.
const (
	// RowIDColumn holds the record's row ID.
	RowIDColumn = "_row"
	// PositionColumn holds the row's zero-based visible position.
	PositionColumn = "_pos"
)

// ErrEmptyQuery is returned for a blank query string.
var ErrEmptyQuery = errors.New("empty query")

// DateLayout is the form date cells take in the table, so they sort and
// compare as text.
const DateLayout = "2006-01-02"

// Grid is the part of a view controller the loader reads.
type Grid[T types.Record] interface {
	Columns() []types.Column
	VisibleRows() []T
	CellAt(item types.Item) types.CellValue
}

// Result is a query's column names and rows. Text comes back as string,
// numbers as int64 or float64, and NULL as nil.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Strings renders every value as text; NULL becomes "".
func (r Result) Strings() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}

// DB is a loaded, read-only snapshot of a grid.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures Open.
type Option func(*DB)

// WithLogger sets the logger used for load and query timings.
func WithLogger(l *slog.Logger) Option {
	return func(d *DB) { d.logger = l }
}

// Open loads the grid's visible rows into a fresh in-memory database and
// switches it to query-only mode.
func Open[T types.Record](ctx context.Context, grid Grid[T], opts ...Option) (*DB, error) {
	d := &DB{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(d)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if err := load(ctx, db, grid); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set query only: %w", err)
	}
	d.db = db
	d.logger.Debug("grid loaded", "table", Table, "rows", len(grid.VisibleRows()))
	return d, nil
}

// Run loads grid, runs one query and closes the database.
func Run[T types.Record](ctx context.Context, grid Grid[T], q string, opts ...Option) (Result, error) {
	d, err := Open(ctx, grid, opts...)
	if err != nil {
		return Result{}, err
	}
	defer d.Close()
	return d.Query(ctx, q)
}

// Query runs a read query against the loaded table.
func (d *DB) Query(ctx context.Context, q string) (Result, error) {
	if strings.TrimSpace(q) == "" {
		return Result{}, ErrEmptyQuery
	}
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	res, err := scan(rows)
	if err != nil {
		return Result{}, fmt.Errorf("scan query: %w", err)
	}
	d.logger.Debug("query done", "columns", len(res.Columns), "rows", len(res.Rows))
	return res, nil
}

// Close releases the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func load[T types.Record](ctx context.Context, db *sql.DB, grid Grid[T]) error {
	cols := grid.Columns()
	defs := []string{quote(RowIDColumn) + " INTEGER", quote(PositionColumn) + " INTEGER"}
	for _, c := range cols {
		defs = append(defs, quote(c.ID)+" "+sqlType(c.Type))
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quote(Table), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create table %s: %w", Table, err)
	}

	visible := grid.VisibleRows()
	if len(visible) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(cols)+2), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(Table), marks))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	vals := make([]any, len(cols)+2)
	for pos, r := range visible {
		vals[0], vals[1] = r.RowID(), pos
		for i := range cols {
			vals[i+2] = sqlValue(grid.CellAt(types.Item{Col: i, Row: pos}))
		}
		if _, err := stmt.ExecContext(ctx, vals...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row %d: %w", r.RowID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

func scan(rows *sql.Rows) (Result, error) {
	names, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}
	res := Result{Columns: names, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	return res, rows.Err()
}

func sqlType(columnType string) string {
	switch columnType {
	case types.ColumnNumber:
		return "REAL"
	case types.ColumnBoolean:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// quote makes an SQL identifier of s.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sqlValue converts a resolved cell to the value stored for it. Empty cells
// become NULL.
func sqlValue(cell types.CellValue) any {
	switch c := cell.(type) {
	case types.NumberCell:
		if c.Data == nil {
			return nil
		}
		return *c.Data
	case types.BooleanCell:
		if c.Data {
			return 1
		}
		return 0
	case types.CustomCell:
		if d, ok := c.Payload.(types.Date); ok {
			if d.Time == nil {
				return nil
			}
			return d.Time.Format(DateLayout)
		}
	}
	if s := types.CopyText(cell); s != "" {
		return s
	}
	return nil
}
