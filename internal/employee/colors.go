package employee

import (
	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// tagPalette holds pill colours readable in both theme variants.
var tagPalette = []types.TagColor{
	{BG: "#3B82F6", FG: "#FFFFFF"},
	{BG: "#8B5CF6", FG: "#FFFFFF"},
	{BG: "#10B981", FG: "#FFFFFF"},
	{BG: "#F59E0B", FG: "#000000"},
	{BG: "#EF4444", FG: "#FFFFFF"},
	{BG: "#06B6D4", FG: "#FFFFFF"},
	{BG: "#EC4899", FG: "#FFFFFF"},
	{BG: "#6366F1", FG: "#FFFFFF"},
	{BG: "#14B8A6", FG: "#FFFFFF"},
	{BG: "#F97316", FG: "#FFFFFF"},
	{BG: "#84CC16", FG: "#000000"},
	{BG: "#A855F7", FG: "#FFFFFF"},
}

// TagColor returns the palette colour for tag. The same text always maps to
// the same colour.
func TagColor(tag string) types.TagColor {
	// The shift operates on the 32-bit truncation of the running hash while
	// the subtraction does not, so h is carried in 64 bits.
	var h int64
	for _, u := range utf16Units(tag) {
		shifted := int64(int32(uint32(h)) << 5)
		h = int64(u) + (shifted - h)
	}
	if h < 0 {
		h = -h
	}
	return tagPalette[h%int64(len(tagPalette))]
}

// TagColors maps every tag to its palette colour.
func TagColors(tags []string) map[string]types.TagColor {
	m := make(map[string]types.TagColor, len(tags))
	for _, t := range tags {
		m[t] = TagColor(t)
	}
	return m
}

// utf16Units hashes over UTF-16 code units so colours match for non-ASCII
// tags across hosts that index strings that way.
func utf16Units(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}

// StageOption is one choice of the funnel stage dropdown.
type StageOption struct {
	Value string
	Label string
	Color types.TagColor
}

// StageOptions lists the funnel stages in menu order.
var StageOptions = []StageOption{
	{Value: "TOFU", Label: "TOFU", Color: types.TagColor{BG: "#3B82F6", FG: "#FFFFFF"}},
	{Value: "MOFU", Label: "MOFU", Color: types.TagColor{BG: "#8B5CF6", FG: "#FFFFFF"}},
	{Value: "BOFU", Label: "BOFU", Color: types.TagColor{BG: "#10B981", FG: "#FFFFFF"}},
}

func stageOption(value string) (StageOption, bool) {
	for _, o := range StageOptions {
		if o.Value == value {
			return o, true
		}
	}
	return StageOption{}, false
}

func stageColors() map[string]types.TagColor {
	m := make(map[string]types.TagColor, len(StageOptions))
	for _, o := range StageOptions {
		m[o.Value] = o.Color
	}
	return m
}

// Dropdowns returns the option lists of the employee dropdown columns,
// keyed by the tags payload key they edit.
func Dropdowns() map[string][]overlay.Option {
	opts := make([]overlay.Option, len(StageOptions))
	for i, o := range StageOptions {
		opts[i] = overlay.Option{Value: o.Value, Label: o.Label, Color: o.Color}
	}
	return map[string][]overlay.Option{ColStage: opts}
}
