package aggregate

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// AddPrompt is shown in a footer cell with no aggregation selected.
const AddPrompt = "+ Add calculation"

// Source supplies the values a footer aggregates. Version must change
// whenever any value may have changed.
type Source interface {
	Version() uint64
	ColumnValues(columnID string) []any
}

// Cell is what the surface draws in one footer cell.
type Cell struct {
	ColumnID string `json:"column_id"`
	Kind     Kind   `json:"kind"`
	Value    string `json:"value,omitempty"`
	Label    string `json:"label,omitempty"`
	Excluded bool   `json:"excluded,omitempty"`
	// Present is false when the selection produced no value.
	Present bool `json:"present"`
}

// Text is the footer caption: value and lowercase label, the add prompt when
// there is no value, or "" for excluded columns.
func (c Cell) Text() string {
	switch {
	case c.Excluded:
		return ""
	case !c.Present:
		return AddPrompt
	case c.Label == "":
		return c.Value
	}
	return c.Value + " " + strings.ToLower(c.Label)
}

type entry struct {
	value string
	ok    bool
}

// Footer holds the selected aggregation per column and caches computed
// values and numeric detection until the source version changes.
type Footer struct {
	mu       sync.Mutex
	src      Source
	types    map[string]string
	order    []string
	excluded map[string]bool
	selected map[string]Kind
	version  uint64
	numeric  map[string]bool
	values   map[string]entry
	logger   *slog.Logger
}

// FooterOption configures a Footer.
type FooterOption func(*Footer)

// WithExcluded removes columns from the footer. Their cells stay empty.
func WithExcluded(columnIDs ...string) FooterOption {
	return func(f *Footer) {
		for _, id := range columnIDs {
			f.excluded[id] = true
		}
	}
}

// WithSelections preselects aggregations, e.g. from configuration.
// Unknown columns and disallowed kinds are skipped.
func WithSelections(sel map[string]Kind) FooterOption {
	return func(f *Footer) {
		for id, k := range sel {
			f.selected[id] = k
		}
	}
}

// WithLogger sets the footer's logger.
func WithLogger(l *slog.Logger) FooterOption {
	return func(f *Footer) { f.logger = l }
}

// NewFooter returns a footer over src for the given columns.
func NewFooter(src Source, columns []types.Column, opts ...FooterOption) *Footer {
	f := &Footer{
		src:      src,
		types:    make(map[string]string, len(columns)),
		excluded: make(map[string]bool),
		selected: make(map[string]Kind),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, c := range columns {
		f.types[c.ID] = c.Type
		f.order = append(f.order, c.ID)
	}
	for _, opt := range opts {
		opt(f)
	}
	for id, k := range f.selected {
		if err := f.check(id, k); err != nil {
			f.logger.Debug("dropping footer selection", "column", id, "kind", k, "reason", err)
			delete(f.selected, id)
		}
	}
	return f
}

// Set selects kind for a column. Selecting on an excluded column is a no-op.
// Returns ErrUnknownColumn for columns the footer does not know and
// ErrKindNotAllowed for numeric kinds on a non-numeric column.
func (f *Footer) Set(columnID string, kind Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh()

	if f.excluded[columnID] {
		f.logger.Debug("footer column excluded", "column", columnID, "kind", kind)
		return nil
	}
	if err := f.check(columnID, kind); err != nil {
		return err
	}
	if kind == None {
		delete(f.selected, columnID)
	} else {
		f.selected[columnID] = kind
	}
	delete(f.values, columnID)
	return nil
}

// Cycle advances a column to the next kind in its menu, wrapping through
// None, and returns the new kind.
func (f *Footer) Cycle(columnID string) Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh()

	if f.excluded[columnID] {
		return None
	}
	if _, ok := f.types[columnID]; !ok {
		return None
	}
	menu := append([]Kind{None}, kinds(Options(f.isNumeric(columnID)))...)
	cur, ok := f.selected[columnID]
	if !ok {
		cur = None
	}
	next := None
	for i, k := range menu {
		if k == cur {
			next = menu[(i+1)%len(menu)]
			break
		}
	}
	if next == None {
		delete(f.selected, columnID)
	} else {
		f.selected[columnID] = next
	}
	delete(f.values, columnID)
	return next
}

// Selected returns the kind selected for a column, None if there is none.
func (f *Footer) Selected(columnID string) Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	if k, ok := f.selected[columnID]; ok {
		return k
	}
	return None
}

// IsNumeric reports whether a column aggregates numerically: its type is
// number, or some value in it is a number. The scan is cached until the
// source version changes.
func (f *Footer) IsNumeric(columnID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh()
	return f.isNumeric(columnID)
}

// Options returns the menu for a column.
func (f *Footer) Options(columnID string) []Option {
	return Options(f.IsNumeric(columnID))
}

// Cell returns the footer cell for a column.
func (f *Footer) Cell(columnID string) Cell {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh()

	c := Cell{ColumnID: columnID, Kind: None}
	if f.excluded[columnID] {
		c.Excluded = true
		return c
	}
	kind, ok := f.selected[columnID]
	if !ok {
		return c
	}
	c.Kind, c.Label = kind, Label(kind)

	e, ok := f.values[columnID]
	if !ok {
		e.value, e.ok = Aggregate(f.src.ColumnValues(columnID), kind, f.isNumeric(columnID))
		f.values[columnID] = e
	}
	c.Value, c.Present = e.value, e.ok
	return c
}

// Cells returns the footer cells in column order.
func (f *Footer) Cells() []Cell {
	out := make([]Cell, len(f.order))
	for i, id := range f.order {
		out[i] = f.Cell(id)
	}
	return out
}

func (f *Footer) check(columnID string, kind Kind) error {
	if _, ok := f.types[columnID]; !ok {
		return fmt.Errorf("footer %s: %w", columnID, types.ErrUnknownColumn)
	}
	if kind != None && Label(kind) == "" {
		return fmt.Errorf("footer %s kind %q: %w", columnID, kind, types.ErrUnknownKind)
	}
	if !Allowed(kind, f.isNumeric(columnID)) {
		return fmt.Errorf("footer %s kind %s: %w", columnID, kind, types.ErrKindNotAllowed)
	}
	return nil
}

// refresh drops cached results when the source has moved on.
func (f *Footer) refresh() {
	v := f.src.Version()
	if f.values != nil && v == f.version {
		return
	}
	f.version = v
	f.numeric = make(map[string]bool)
	f.values = make(map[string]entry)
}

func (f *Footer) isNumeric(columnID string) bool {
	if f.types[columnID] == types.ColumnNumber {
		return true
	}
	if f.numeric == nil {
		f.refresh()
	}
	n, ok := f.numeric[columnID]
	if !ok {
		n = IsNumeric(f.src.ColumnValues(columnID))
		f.numeric[columnID] = n
	}
	return n
}

func kinds(opts []Option) []Kind {
	out := make([]Kind, len(opts))
	for i, o := range opts {
		out[i] = o.Kind
	}
	return out
}
