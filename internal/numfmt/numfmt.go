// Package numfmt formats numbers for grid display: en-US digit grouping and
// at most two fraction digits, computed in decimal so sums of cents do not
// pick up binary float noise.
package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxFractionDigits is the rounding precision used by Format.
const MaxFractionDigits = 2

// Format renders v with thousands separators and up to two fraction digits,
// dropping trailing zeros: 30 -> "30", 1234.567 -> "1,234.57".
func Format(v float64) string {
	return FormatDecimal(decimal.NewFromFloat(v))
}

// FormatDecimal is Format for a value already held as a decimal.
func FormatDecimal(d decimal.Decimal) string {
	s := d.Round(MaxFractionDigits).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Percent renders part/total*100 with one fraction digit and a trailing
// percent sign, e.g. "60.0%". The caller guarantees total > 0.
func Percent(part, total int) string {
	p := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
	return p.StringFixed(1) + "%"
}
