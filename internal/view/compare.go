package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// sortRows returns a sorted copy of rows. The input slice is never
// reordered. Equal keys keep their relative order and nil keys go last in
// both directions.
func sortRows[T types.Record](rows []T, spec types.SortSpec) []T {
	out := slices.Clone(rows)
	if !spec.Active() {
		return out
	}
	sign := spec.Sign()
	slices.SortStableFunc(out, func(a, b T) int {
		return compareFields(a.Field(spec.ColumnID), b.Field(spec.ColumnID), sign)
	})
	return out
}

// compareFields orders two raw field values for a sort with the given sign.
// Nil sorts after every value regardless of sign.
func compareFields(a, b any, sign int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return sign * compareValues(a, b)
}

// compareValues compares two non-nil values: instants by time, booleans
// false before true, numbers numerically, anything else as case-folded
// text.
func compareValues(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return compareBool(ab, bb)
		}
	}
	if an, ok := toFloat(a); ok {
		if bn, ok := toFloat(b); ok {
			return cmp.Compare(an, bn)
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
