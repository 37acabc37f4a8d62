// Package view is the grid's view state controller. It owns the row store
// and the derived view over it: the sort, the visible row order, the column
// descriptors with their widths, the row selection and the viewport.
//
// Every mutation of the rows goes through the controller. Interaction entry
// points never return errors; a request that cannot be honoured leaves the
// grid unchanged and is logged at debug level.
package view

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/internal/rowstore"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Controller drives one grid over records of type T.
type Controller[T types.Record] struct {
	mu       sync.Mutex
	id       uuid.UUID
	store    *rowstore.Store[T]
	resolver types.Resolver[T]
	blank    types.BlankRowFunc[T]
	logger   *slog.Logger

	columns   []types.Column
	sort      types.SortSpec
	selected  map[int]bool // row IDs
	viewport  types.Viewport
	editing   uuid.UUID
	listeners map[int]func(Event)
	nextSub   int

	visible      []T
	visibleKey   visibleKey
	visibleValid bool
}

type visibleKey struct {
	version uint64
	sort    types.SortSpec
}

// Option configures a Controller.
type Option[T types.Record] func(*Controller[T])

// WithBlankRow sets the factory used by AddRow. Without one AddRow is a
// no-op.
func WithBlankRow[T types.Record](blank types.BlankRowFunc[T]) Option[T] {
	return func(c *Controller[T]) { c.blank = blank }
}

// WithLogger sets the controller's logger.
func WithLogger[T types.Record](l *slog.Logger) Option[T] {
	return func(c *Controller[T]) { c.logger = l }
}

// New returns a controller over a copy of rows. It returns an error when the
// rows break the row store's ID rules or the columns do not validate.
func New[T types.Record](rows []T, columns []types.Column, resolver types.Resolver[T], opts ...Option[T]) (*Controller[T], error) {
	if err := types.ValidateColumns(columns); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	store, err := rowstore.New(rows)
	if err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	c := &Controller[T]{
		id:        uuid.New(),
		store:     store,
		resolver:  resolver,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		columns:   slices.Clone(columns),
		selected:  make(map[int]bool),
		listeners: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("grid", c.id.String())
	return c, nil
}

// ID identifies the controller in logs.
func (c *Controller[T]) ID() uuid.UUID { return c.id }

// Version changes whenever row content changes. It does not change on sort,
// resize or selection.
func (c *Controller[T]) Version() uint64 { return c.store.Version() }

// Columns returns the current column descriptors. The slice is shared and
// must not be modified; a resize replaces it rather than writing into it.
func (c *Controller[T]) Columns() []types.Column {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns
}

// Sort returns the active sort.
func (c *Controller[T]) Sort() types.SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// Len returns the number of visible rows.
func (c *Controller[T]) Len() int { return c.store.Len() }

// Rows returns the rows in store order.
func (c *Controller[T]) Rows() []T { return c.store.All() }

// VisibleRows returns a copy of the rows in visible order.
func (c *Controller[T]) VisibleRows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.visibleLocked())
}

// RowAt returns the row at a visible position.
func (c *Controller[T]) RowAt(pos int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rowAtLocked(pos)
}

// SetSort sorts by a column, or restores store order when either the column
// or dir is empty. Returns ErrUnknownColumn when sorting by a column the
// grid does not have. Changing the sort clears the selection.
func (c *Controller[T]) SetSort(columnID string, dir types.Direction) error {
	c.mu.Lock()
	next := types.SortSpec{ColumnID: columnID, Direction: dir}
	if columnID == "" || dir == types.DirectionNone {
		next = types.SortSpec{}
	} else if types.ColumnIndex(c.columns, columnID) < 0 {
		c.mu.Unlock()
		return fmt.Errorf("sort by %q: %w", columnID, types.ErrUnknownColumn)
	}
	if next == c.sort {
		c.mu.Unlock()
		return nil
	}
	c.sort = next
	c.clearSelectionLocked()
	c.mu.Unlock()

	c.logger.Debug("sort changed", "column", next.ColumnID, "direction", next.Direction)
	c.emit(Event{Kind: EventSort})
	return nil
}

// ResizeColumn sets the width of the column at index. The index is trusted
// over col, which only names the column for logging. Widths below
// MinColumnWidth are raised to it. The column slice is replaced, never
// written in place. Returns false when index is out of range.
func (c *Controller[T]) ResizeColumn(col types.Column, width, index int) bool {
	c.mu.Lock()
	if index < 0 || index >= len(c.columns) {
		c.mu.Unlock()
		c.logger.Debug("resize ignored", "column", col.ID, "index", index, "reason", types.ErrColumnOutOfRange)
		return false
	}
	next := slices.Clone(c.columns)
	next[index].Width = max(width, types.MinColumnWidth)
	c.columns = next
	c.mu.Unlock()

	c.emit(Event{Kind: EventColumns, Item: types.Item{Col: index, Row: -1}})
	return true
}

// SetColumns replaces the column descriptors.
func (c *Controller[T]) SetColumns(cols []types.Column) error {
	if err := types.ValidateColumns(cols); err != nil {
		return fmt.Errorf("set columns: %w", err)
	}
	c.mu.Lock()
	c.columns = slices.Clone(cols)
	if c.sort.Active() && types.ColumnIndex(c.columns, c.sort.ColumnID) < 0 {
		c.sort = types.SortSpec{}
		c.clearSelectionLocked()
	}
	c.mu.Unlock()
	c.emit(Event{Kind: EventColumns, Item: types.Item{Col: -1, Row: -1}})
	return nil
}

// CellAt resolves the cell at a column index and visible row position.
// Addresses outside the grid resolve to a loading cell.
func (c *Controller[T]) CellAt(item types.Item) types.CellValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cellAtLocked(item)
}

// CellsForSelection resolves a block of cells row by row.
func (c *Controller[T]) CellsForSelection(r types.CellRange) [][]types.CellValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]types.CellValue, 0, max(r.Height, 0))
	for dy := range max(r.Height, 0) {
		row := make([]types.CellValue, 0, max(r.Width, 0))
		for dx := range max(r.Width, 0) {
			row = append(row, c.cellAtLocked(types.Item{Col: r.Col + dx, Row: r.Row + dy}))
		}
		out = append(out, row)
	}
	return out
}

// ColumnValues returns the raw field values of a column in visible order.
func (c *Controller[T]) ColumnValues(columnID string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.visibleLocked()
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r.Field(columnID)
	}
	return out
}

// EditCell applies an edit committed by the surface to the cell at item.
// The edit goes through the resolver, so edits it rejects leave the row
// unchanged. Returns whether the row changed.
func (c *Controller[T]) EditCell(item types.Item, edit types.CellValue) bool {
	c.mu.Lock()
	if item.Col < 0 || item.Col >= len(c.columns) {
		c.mu.Unlock()
		c.logger.Debug("edit ignored", "col", item.Col, "row", item.Row, "reason", types.ErrColumnOutOfRange)
		return false
	}
	row, ok := c.rowAtLocked(item.Row)
	columnID := c.columns[item.Col].ID
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("edit ignored", "column", columnID, "row", item.Row, "reason", types.ErrNotFound)
		return false
	}
	return c.apply(row, columnID, edit)
}

// BeginEdit records o as the open overlay. Only commits from the most
// recently begun session are applied.
func (c *Controller[T]) BeginEdit(o overlay.Overlay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = o.Session()
}

// CommitOverlay applies an overlay commit to the row it names by ID, so a
// sort that happened while the overlay was open cannot redirect it. Commits
// from a session other than the open one, or for a row that no longer
// exists, are dropped.
func (c *Controller[T]) CommitOverlay(commit overlay.Commit) bool {
	c.mu.Lock()
	if commit.Session != c.editing || c.editing == uuid.Nil {
		c.mu.Unlock()
		c.logger.Debug("stale overlay commit", "column", commit.ColumnID, "row", commit.RowID, "session", commit.Session.String())
		return false
	}
	c.editing = uuid.Nil
	c.mu.Unlock()

	row, err := c.store.Get(commit.RowID)
	if err != nil {
		c.logger.Debug("overlay commit dropped", "column", commit.ColumnID, "row", commit.RowID, "reason", err)
		return false
	}
	return c.apply(row, commit.ColumnID, commit.Edit)
}

// EndEdit forgets the open overlay without applying anything.
func (c *Controller[T]) EndEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = uuid.Nil
}

func (c *Controller[T]) apply(row T, columnID string, edit types.CellValue) bool {
	updated := c.resolver.ApplyEdit(row, columnID, edit)
	if reflect.DeepEqual(updated, row) {
		c.logger.Debug("edit rejected", "column", columnID, "row", row.RowID(), "reason", "resolver left row unchanged")
		return false
	}
	if err := c.store.Put(updated); err != nil {
		c.logger.Debug("edit dropped", "column", columnID, "row", row.RowID(), "reason", err)
		return false
	}
	c.emit(Event{Kind: EventRows, RowID: row.RowID()})
	return true
}

// AddRow appends a blank row with the next identifier. It is a no-op when
// the controller has no blank row factory.
func (c *Controller[T]) AddRow() (T, bool) {
	var zero T
	if c.blank == nil {
		c.logger.Debug("add row ignored", "reason", "no blank row factory")
		return zero, false
	}
	row, err := c.store.Append(c.blank)
	if err != nil {
		c.logger.Debug("add row failed", "reason", err)
		return zero, false
	}
	c.emit(Event{Kind: EventRows, RowID: row.RowID()})
	return row, true
}

// DeleteRows removes the rows at the given visible positions. Positions are
// mapped to row IDs through the current visible order before the store is
// touched. Positions out of range are ignored. Returns the number of rows
// removed.
func (c *Controller[T]) DeleteRows(positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	c.mu.Lock()
	visible := c.visibleLocked()
	ids := make([]int, 0, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(visible) {
			ids = append(ids, visible[p].RowID())
		}
	}
	c.clearSelectionLocked()
	c.mu.Unlock()

	n := c.store.DeleteIDs(ids)
	if n > 0 {
		c.logger.Debug("rows deleted", "count", n)
		c.emit(Event{Kind: EventRows})
	}
	return n
}

// DeleteSelected removes the selected rows by ID, wherever the current
// visible order has put them.
func (c *Controller[T]) DeleteSelected() int {
	c.mu.Lock()
	ids := make([]int, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	c.clearSelectionLocked()
	c.mu.Unlock()
	if len(ids) == 0 {
		return 0
	}

	n := c.store.DeleteIDs(ids)
	if n > 0 {
		c.logger.Debug("rows deleted", "count", n)
		c.emit(Event{Kind: EventRows})
	}
	return n
}

// Replace swaps in a new set of rows, e.g. regenerated sample data. The
// sort is kept and the selection cleared.
func (c *Controller[T]) Replace(rows []T) error {
	if err := c.store.Replace(rows); err != nil {
		return fmt.Errorf("replace rows: %w", err)
	}
	c.mu.Lock()
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.emit(Event{Kind: EventRows})
	return nil
}

// Selection returns the visible positions of the selected rows, in
// ascending order. Rows are selected by ID, so the positions follow the
// rows through edits and appends that move them.
func (c *Controller[T]) Selection() types.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]int, 0, len(c.selected))
	if len(c.selected) == 0 {
		return types.Selection{Rows: rows}
	}
	for pos, r := range c.visibleLocked() {
		if c.selected[r.RowID()] {
			rows = append(rows, pos)
		}
	}
	return types.Selection{Rows: rows}
}

// SetSelection replaces the selection with the rows at the given visible
// positions. Positions outside the visible rows are dropped.
func (c *Controller[T]) SetSelection(positions ...int) {
	c.mu.Lock()
	visible := c.visibleLocked()
	c.selected = make(map[int]bool, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(visible) {
			c.selected[visible[p].RowID()] = true
		}
	}
	c.mu.Unlock()
	c.emit(Event{Kind: EventSelection})
}

// ToggleRow flips the selection of the row at one visible position.
func (c *Controller[T]) ToggleRow(pos int) {
	c.mu.Lock()
	r, ok := c.rowAtLocked(pos)
	if !ok {
		c.mu.Unlock()
		return
	}
	if id := r.RowID(); c.selected[id] {
		delete(c.selected, id)
	} else {
		c.selected[id] = true
	}
	c.mu.Unlock()
	c.emit(Event{Kind: EventSelection, Item: types.Item{Col: -1, Row: pos}})
}

// ClearSelection drops the selection.
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.emit(Event{Kind: EventSelection})
}

// SetViewport records the scrolled window reported by the surface.
func (c *Controller[T]) SetViewport(v types.Viewport) {
	c.mu.Lock()
	if v == c.viewport {
		c.mu.Unlock()
		return
	}
	c.viewport = v
	c.mu.Unlock()
	c.emit(Event{Kind: EventViewport})
}

// Viewport returns the last recorded viewport.
func (c *Controller[T]) Viewport() types.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

func (c *Controller[T]) clearSelectionLocked() {
	if len(c.selected) > 0 {
		c.selected = make(map[int]bool)
	}
}

// visibleLocked returns the visible rows, re-sorting only when the rows or
// the sort changed since the last call.
func (c *Controller[T]) visibleLocked() []T {
	key := visibleKey{version: c.store.Version(), sort: c.sort}
	if c.visibleValid && key == c.visibleKey {
		return c.visible
	}
	c.visible = sortRows(c.store.All(), c.sort)
	c.visibleKey = key
	c.visibleValid = true
	return c.visible
}

func (c *Controller[T]) rowAtLocked(pos int) (T, bool) {
	rows := c.visibleLocked()
	if pos < 0 || pos >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[pos], true
}

func (c *Controller[T]) cellAtLocked(item types.Item) types.CellValue {
	if item.Col < 0 || item.Col >= len(c.columns) {
		return types.LoadingCell{}
	}
	row, ok := c.rowAtLocked(item.Row)
	if !ok {
		return types.LoadingCell{}
	}
	return c.resolver.Resolve(row, c.columns[item.Col].ID)
}
