package types

// Column type hints. The hint drives resolution, sorting, editing and
// numeric detection for footer aggregation.
const (
	ColumnText      = "text"
	ColumnBoolean   = "boolean"
	ColumnURI       = "uri"
	ColumnNumber    = "number"
	ColumnDate      = "date"
	ColumnTag       = "custom-tag"
	ColumnPersona   = "custom-persona"
	ColumnSparkline = "custom-sparkline"
)

// validColumnTypes is the set of recognized column type hints.
var validColumnTypes = map[string]bool{
	ColumnText:      true,
	ColumnBoolean:   true,
	ColumnURI:       true,
	ColumnNumber:    true,
	ColumnDate:      true,
	ColumnTag:       true,
	ColumnPersona:   true,
	ColumnSparkline: true,
}

// IsValidColumnType reports whether t is a recognized column type hint.
func IsValidColumnType(t string) bool {
	return validColumnTypes[t]
}

// MinColumnWidth is the narrowest width, in pixels, a column may be resized to.
const MinColumnWidth = 40

// Column describes one grid column. Display order is slice order. Group is a
// header label only; columns sharing a group have no other relationship.
type Column struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Group    string `json:"group,omitempty" yaml:"group,omitempty"`
	Width    int    `json:"width" yaml:"width"`
	Type     string `json:"type" yaml:"type"`
	Editable bool   `json:"editable" yaml:"editable"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Validate checks a single column descriptor.
func (c Column) Validate() error {
	if c.ID == "" {
		return ErrUnknownColumn
	}
	if !IsValidColumnType(c.Type) {
		return ErrInvalidColumnType
	}
	if c.Width < MinColumnWidth {
		return ErrWidthTooSmall
	}
	return nil
}

// ValidateColumns checks every descriptor and that column IDs are unique.
func ValidateColumns(cols []Column) error {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return ErrDuplicateColumn
		}
		seen[c.ID] = true
	}
	return nil
}

// ColumnIndex returns the position of the column with the given ID, or -1.
func ColumnIndex(cols []Column, id string) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}
