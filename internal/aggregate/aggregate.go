// Package aggregate computes footer summaries over one column's values:
// counts and percentages of empty and filled cells for any column, and
// sum, average, min and max for numeric columns.
package aggregate

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/griddle/internal/numfmt"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Kind names one footer aggregation.
type Kind string

// Aggregation kinds.
const (
	None          Kind = "none"
	CountEmpty    Kind = "countEmpty"
	CountFilled   Kind = "countFilled"
	PercentEmpty  Kind = "percentEmpty"
	PercentFilled Kind = "percentFilled"
	Sum           Kind = "sum"
	Average       Kind = "average"
	Min           Kind = "min"
	Max           Kind = "max"
)

// Option is one entry of a footer aggregation menu.
type Option struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

var countOptions = []Option{
	{Kind: CountEmpty, Label: "Count empty"},
	{Kind: CountFilled, Label: "Count filled"},
	{Kind: PercentEmpty, Label: "Percent empty"},
	{Kind: PercentFilled, Label: "Percent filled"},
}

var numericOptions = []Option{
	{Kind: Sum, Label: "Sum"},
	{Kind: Average, Label: "Average"},
	{Kind: Min, Label: "Min"},
	{Kind: Max, Label: "Max"},
}

// Options returns the menu for a column. Numeric columns offer every kind;
// other columns offer only the count and percent kinds.
func Options(numeric bool) []Option {
	out := append([]Option(nil), countOptions...)
	if numeric {
		out = append(out, numericOptions...)
	}
	return out
}

// Label returns the menu label of kind, or "" for None and unknown kinds.
func Label(kind Kind) string {
	for _, o := range Options(true) {
		if o.Kind == kind {
			return o.Label
		}
	}
	return ""
}

// ParseKind validates a kind name. The empty string parses as None.
func ParseKind(s string) (Kind, error) {
	if s == "" || Kind(s) == None {
		return None, nil
	}
	if Label(Kind(s)) == "" {
		return None, fmt.Errorf("parse aggregation %q: %w", s, types.ErrUnknownKind)
	}
	return Kind(s), nil
}

// Allowed reports whether kind may be selected for a column. None is always
// allowed.
func Allowed(kind Kind, numeric bool) bool {
	if kind == None {
		return true
	}
	for _, o := range Options(numeric) {
		if o.Kind == kind {
			return true
		}
	}
	return false
}

// Aggregate summarises values. The second result is false when there is
// nothing to show: kind is None or unknown, kind needs a numeric column and
// numeric is false, values is empty, or a sum, average, min or max has no
// filled value to work on.
//
// In numeric mode a value is filled when it is a finite number. Otherwise it
// is filled when it is neither nil nor the empty string.
func Aggregate(values []any, kind Kind, numeric bool) (string, bool) {
	if kind == None || !Allowed(kind, numeric) {
		return "", false
	}
	total := len(values)
	if total == 0 {
		return "", false
	}

	var nums []decimal.Decimal
	filled := 0
	for _, v := range values {
		if numeric {
			if d, ok := number(v); ok {
				nums = append(nums, d)
				filled++
			}
			continue
		}
		if v != nil && v != "" {
			filled++
		}
	}
	empty := total - filled

	switch kind {
	case CountEmpty:
		return fmt.Sprint(empty), true
	case CountFilled:
		return fmt.Sprint(filled), true
	case PercentEmpty:
		return numfmt.Percent(empty, total), true
	case PercentFilled:
		return numfmt.Percent(filled, total), true
	}

	if filled == 0 {
		return "", false
	}
	switch kind {
	case Sum:
		return numfmt.FormatDecimal(decimal.Sum(nums[0], nums[1:]...)), true
	case Average:
		return numfmt.FormatDecimal(decimal.Avg(nums[0], nums[1:]...)), true
	case Min:
		return numfmt.FormatDecimal(decimal.Min(nums[0], nums[1:]...)), true
	case Max:
		return numfmt.FormatDecimal(decimal.Max(nums[0], nums[1:]...)), true
	}
	return "", false
}

// IsNumeric reports whether any value is a finite number.
func IsNumeric(values []any) bool {
	for _, v := range values {
		if _, ok := number(v); ok {
			return true
		}
	}
	return false
}

func number(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case *float64:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return number(*n)
	case float32:
		return number(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	}
	return decimal.Decimal{}, false
}
