package types

import "slices"

// Selection is the set of selected visible row positions, ascending.
// Positions refer to the current visible order and are invalidated by any
// change of that order.
type Selection struct {
	Rows []int `json:"rows"`
}

// Contains reports whether the visible position is selected.
func (s Selection) Contains(row int) bool {
	_, ok := slices.BinarySearch(s.Rows, row)
	return ok
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return len(s.Rows) == 0 }
