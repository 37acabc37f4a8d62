package types

// Direction orders a sorted column.
type Direction string

// Sort directions. DirectionNone clears sorting.
const (
	DirectionNone Direction = ""
	Ascending     Direction = "asc"
	Descending    Direction = "desc"
)

// ParseDirection accepts "asc", "desc" and the empty string (or "none") for
// no sort. It returns ErrInvalidDirection for anything else.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	case "", "none":
		return DirectionNone, nil
	default:
		return DirectionNone, ErrInvalidDirection
	}
}

// SortSpec is the active sort. Direction is meaningful only when ColumnID is
// set; a spec with either field empty means the natural store order.
type SortSpec struct {
	ColumnID  string    `json:"column_id"`
	Direction Direction `json:"direction"`
}

// Active reports whether s orders rows at all.
func (s SortSpec) Active() bool {
	return s.ColumnID != "" && s.Direction != DirectionNone
}

// Sign is +1 for ascending and -1 for descending.
func (s SortSpec) Sign() int {
	if s.Direction == Descending {
		return -1
	}
	return 1
}
