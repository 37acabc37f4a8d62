// Package theme builds the presentational token set the surface and cell
// renderers draw with. A Theme is fully populated once built; nothing
// downstream fills in defaults or branches on the variant.
package theme

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// ErrInvalidOverride is returned when an override names a token that does not
// exist or carries a value of the wrong type.
var ErrInvalidOverride = errors.New("invalid theme override")

// Theme is the resolved token set. Colours are CSS hex or rgba() strings;
// font styles hold weight and size only and are joined with FontFamily by
// the font helpers.
type Theme struct {
	Variant string `mapstructure:"-"`

	AccentColor        string `mapstructure:"accentColor"`
	AccentLight        string `mapstructure:"accentLight"`
	AccentFg           string `mapstructure:"accentFg"`
	TextDark           string `mapstructure:"textDark"`
	TextMedium         string `mapstructure:"textMedium"`
	TextLight          string `mapstructure:"textLight"`
	TextBubble         string `mapstructure:"textBubble"`
	TextHeader         string `mapstructure:"textHeader"`
	TextGroupHeader    string `mapstructure:"textGroupHeader"`
	TextHeaderSelected string `mapstructure:"textHeaderSelected"`
	BgCell             string `mapstructure:"bgCell"`
	BgCellMedium       string `mapstructure:"bgCellMedium"`
	BgHeader           string `mapstructure:"bgHeader"`
	BgHeaderHasFocus   string `mapstructure:"bgHeaderHasFocus"`
	BgHeaderHovered    string `mapstructure:"bgHeaderHovered"`
	BgBubble           string `mapstructure:"bgBubble"`
	BgBubbleSelected   string `mapstructure:"bgBubbleSelected"`
	BgSearchResult     string `mapstructure:"bgSearchResult"`
	BorderColor        string `mapstructure:"borderColor"`
	HorizontalBorder   string `mapstructure:"horizontalBorderColor"`
	DrilldownBorder    string `mapstructure:"drilldownBorder"`
	LinkColor          string `mapstructure:"linkColor"`
	HeaderBottomBorder string `mapstructure:"headerBottomBorderColor"`
	ResizeIndicator    string `mapstructure:"resizeIndicatorColor"`
	BgIconHeader       string `mapstructure:"bgIconHeader"`
	FgIconHeader       string `mapstructure:"fgIconHeader"`

	CellHorizontalPadding float64 `mapstructure:"cellHorizontalPadding"`
	CellVerticalPadding   float64 `mapstructure:"cellVerticalPadding"`
	HeaderIconSize        float64 `mapstructure:"headerIconSize"`
	LineHeight            float64 `mapstructure:"lineHeight"`
	RoundingRadius        float64 `mapstructure:"roundingRadius"`

	HeaderFontStyle string `mapstructure:"headerFontStyle"`
	BaseFontStyle   string `mapstructure:"baseFontStyle"`
	MarkerFontStyle string `mapstructure:"markerFontStyle"`
	FontFamily      string `mapstructure:"fontFamily"`
	EditorFontSize  string `mapstructure:"editorFontSize"`
}

const fontFamily = `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`

// Light returns the light variant.
func Light() Theme {
	return Theme{
		Variant:               types.ThemeLight,
		AccentColor:           "#2F8BFF",
		AccentLight:           "#E6F0FF",
		AccentFg:              "#ffffff",
		TextDark:              "#09090B",
		TextMedium:            "#757577",
		TextLight:             "#9E9E9F",
		TextBubble:            "#09090B",
		TextHeader:            "#222222",
		TextGroupHeader:       "#09090B",
		TextHeaderSelected:    "#ffffff",
		BgCell:                "#ffffff",
		BgCellMedium:          "#F7F7F7",
		BgHeader:              "#F7F7F7",
		BgHeaderHasFocus:      "#E6EDFF",
		BgHeaderHovered:       "#EEEEEE",
		BgBubble:              "#E5E7EB",
		BgBubbleSelected:      "#E5E7EB",
		BgSearchResult:        "#FEF9C3",
		BorderColor:           "rgba(36, 31, 47, 0.12)",
		HorizontalBorder:      "rgba(36, 31, 47, 0.12)",
		DrilldownBorder:       "rgba(36, 31, 47, 0.12)",
		LinkColor:             "#0D37FD",
		HeaderBottomBorder:    "#E5E5E5",
		ResizeIndicator:       "#9E9E9F",
		BgIconHeader:          "#E2E8F0",
		FgIconHeader:          "#475569",
		CellHorizontalPadding: 12,
		CellVerticalPadding:   8,
		HeaderIconSize:        18,
		LineHeight:            1.4,
		RoundingRadius:        6,
		HeaderFontStyle:       "600 14px",
		BaseFontStyle:         "400 14px",
		MarkerFontStyle:       "600 14px",
		FontFamily:            fontFamily,
		EditorFontSize:        "14px",
	}
}

// Dark returns the dark variant.
func Dark() Theme {
	t := Light()
	t.Variant = types.ThemeDark
	t.AccentLight = "rgba(47, 139, 255, 0.12)"
	t.TextDark = "#ffffff"
	t.TextMedium = "#b8b8b8"
	t.TextLight = "#a0a0a0"
	t.TextBubble = "#ffffff"
	t.TextHeader = "#e5e5e5"
	t.TextGroupHeader = "#e5e5e5"
	t.BgCell = "#09090B"
	t.BgCellMedium = "#18181B"
	t.BgHeader = "#18181B"
	t.BgHeaderHasFocus = "#27272A"
	t.BgHeaderHovered = "#27272A"
	t.BgBubble = "#27272A"
	t.BgBubbleSelected = "#3F3F46"
	t.BgSearchResult = "#713f12"
	t.BorderColor = "rgba(255, 255, 255, 0.15)"
	t.HorizontalBorder = "rgba(255, 255, 255, 0.15)"
	t.DrilldownBorder = "rgba(255, 255, 255, 0.2)"
	t.LinkColor = "#60A5FA"
	t.HeaderBottomBorder = "rgba(255,255,255,0.1)"
	t.ResizeIndicator = "#71717A"
	t.BgIconHeader = "#52525B"
	t.FgIconHeader = "#E4E4E7"
	return t
}

// Build returns the named variant with overrides applied. Override keys are
// token names as they appear in config files (e.g. "accentColor"); values
// may be strings or numbers and are converted to the token's type.
// Returns ErrUnknownVariant or ErrInvalidOverride, or an error naming the
// colour token that does not parse.
func Build(variant string, overrides map[string]any) (Theme, error) {
	var t Theme
	switch variant {
	case types.ThemeLight:
		t = Light()
	case types.ThemeDark:
		t = Dark()
	default:
		return Theme{}, fmt.Errorf("build theme %q: %w", variant, types.ErrUnknownVariant)
	}
	if len(overrides) == 0 {
		return t, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &t,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Theme{}, fmt.Errorf("build theme decoder: %w", err)
	}
	if err := dec.Decode(overrides); err != nil {
		return Theme{}, fmt.Errorf("apply theme overrides: %w: %v", ErrInvalidOverride, err)
	}
	t.Variant = variant
	if err := t.validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// validate checks that every colour token parses.
func (t Theme) validate() error {
	for name, v := range t.colors() {
		if _, err := ParseColor(v); err != nil {
			return fmt.Errorf("theme token %s: %w", name, err)
		}
	}
	return nil
}

func (t Theme) colors() map[string]string {
	return map[string]string{
		"accentColor":             t.AccentColor,
		"accentLight":             t.AccentLight,
		"accentFg":                t.AccentFg,
		"textDark":                t.TextDark,
		"textMedium":              t.TextMedium,
		"textLight":               t.TextLight,
		"textBubble":              t.TextBubble,
		"textHeader":              t.TextHeader,
		"textGroupHeader":         t.TextGroupHeader,
		"textHeaderSelected":      t.TextHeaderSelected,
		"bgCell":                  t.BgCell,
		"bgCellMedium":            t.BgCellMedium,
		"bgHeader":                t.BgHeader,
		"bgHeaderHasFocus":        t.BgHeaderHasFocus,
		"bgHeaderHovered":         t.BgHeaderHovered,
		"bgBubble":                t.BgBubble,
		"bgBubbleSelected":        t.BgBubbleSelected,
		"bgSearchResult":          t.BgSearchResult,
		"borderColor":             t.BorderColor,
		"horizontalBorderColor":   t.HorizontalBorder,
		"drilldownBorder":         t.DrilldownBorder,
		"linkColor":               t.LinkColor,
		"headerBottomBorderColor": t.HeaderBottomBorder,
		"resizeIndicatorColor":    t.ResizeIndicator,
		"bgIconHeader":            t.BgIconHeader,
		"fgIconHeader":            t.FgIconHeader,
	}
}

// BaseFont joins the base font style with the family.
func (t Theme) BaseFont() string { return t.BaseFontStyle + " " + t.FontFamily }

// HeaderFont joins the header font style with the family.
func (t Theme) HeaderFont() string { return t.HeaderFontStyle + " " + t.FontFamily }

// MarkerFont joins the row marker font style with the family.
func (t Theme) MarkerFont() string { return t.MarkerFontStyle + " " + t.FontFamily }
