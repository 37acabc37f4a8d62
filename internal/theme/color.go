package theme

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrBadColor is returned for colour strings that are neither hex nor rgb()/rgba().
var ErrBadColor = errors.New("unparseable colour")

// ParseColor reads "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)" and
// "rgba(r, g, b, a)" where a is in [0, 1].
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgb("):len(s)-1], 3)
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// Color parses s and falls back to fallback when s does not parse. It is
// meant for colours carried in row data, which are not validated up front.
func Color(s string, fallback color.Color) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// MustColor parses a token of a built theme. Built themes are validated,
// so a failure here is a programming error.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha scaled by a in [0, 1].
func WithAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * clamp01(a)))
	return n
}

func parseHex(h string) (color.NRGBA, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrBadColor, h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrBadColor, h)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunc(args string, n int) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return color.NRGBA{}, fmt.Errorf("%w: %d components", ErrBadColor, len(parts))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: channel %q", ErrBadColor, parts[i])
		}
		ch[i] = uint8(math.Round(v))
	}
	a := 1.0
	if n == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: alpha %q", ErrBadColor, parts[3])
		}
		a = clamp01(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(math.Round(a * 255))}, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
