package types

import "errors"

// Record is a row held by the row store. RowID is unique within a store and
// never reassigned; Field returns the raw value for a column, or nil when the
// value is empty or the column is unknown.
type Record interface {
	RowID() int
	Field(columnID string) any
}

// Resolver bridges a record type and the column schema in both directions.
// Both methods are total: Resolve never fails and ApplyEdit returns the row
// unchanged when the edit cannot be applied.
type Resolver[T Record] interface {
	// Resolve maps a row and column to the value the surface draws.
	// Unknown columns resolve to an empty TextCell.
	Resolve(row T, columnID string) CellValue

	// ApplyEdit returns row with the edit applied. It returns row unchanged
	// when the column is not editable, the edit kind does not match the
	// column, or the edit carries an invalid instant.
	ApplyEdit(row T, columnID string, edit CellValue) T
}

// BlankRowFunc builds an empty record carrying the given identifier.
type BlankRowFunc[T Record] func(id int) T

// Row store errors.
var (
	ErrNotFound    = errors.New("row not found")
	ErrInvalidID   = errors.New("invalid row ID")
	ErrDuplicateID = errors.New("duplicate row ID")
)

// Schema and view errors.
var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrDuplicateColumn   = errors.New("duplicate column ID")
	ErrInvalidColumnType = errors.New("invalid column type")
	ErrColumnOutOfRange  = errors.New("column index out of range")
	ErrWidthTooSmall     = errors.New("column width below minimum")
	ErrInvalidDirection  = errors.New("invalid sort direction")
)

// Aggregation errors.
var (
	ErrUnknownKind    = errors.New("unknown aggregation kind")
	ErrKindNotAllowed = errors.New("aggregation kind not allowed for column")
)

// Edit errors.
var (
	ErrNoEditor = errors.New("no editor for cell")
)
