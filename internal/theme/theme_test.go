package theme

import (
	"image/color"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

func TestBuildVariantsFullyPopulated(t *testing.T) {
	for _, variant := range []string{types.ThemeLight, types.ThemeDark} {
		t.Run(variant, func(t *testing.T) {
			th, err := Build(variant, nil)
			require.NoError(t, err)
			assert.Equal(t, variant, th.Variant)

			v := reflect.ValueOf(th)
			for i := 0; i < v.NumField(); i++ {
				assert.False(t, v.Field(i).IsZero(), "token %s is empty", v.Type().Field(i).Name)
			}
			require.NoError(t, th.validate())
		})
	}
}

func TestBuildUnknownVariant(t *testing.T) {
	_, err := Build("sepia", nil)
	assert.ErrorIs(t, err, types.ErrUnknownVariant)
}

func TestBuildOverrides(t *testing.T) {
	th, err := Build(types.ThemeDark, map[string]any{
		"accentColor":           "#FF0000",
		"cellHorizontalPadding": "16",
		"roundingRadius":        4,
	})
	require.NoError(t, err)

	dark := Dark()
	assert.Equal(t, "#FF0000", th.AccentColor)
	assert.Equal(t, 16.0, th.CellHorizontalPadding)
	assert.Equal(t, 4.0, th.RoundingRadius)
	assert.Equal(t, dark.BgCell, th.BgCell)
	assert.Equal(t, dark.TextDark, th.TextDark)
	assert.Equal(t, types.ThemeDark, th.Variant)
}

func TestBuildRejectsBadOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   error
	}{
		{name: "unknown token", overrides: map[string]any{"bgNope": "#fff"}, wantErr: ErrInvalidOverride},
		{name: "bad colour", overrides: map[string]any{"bgCell": "blue-ish"}, wantErr: ErrBadColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(types.ThemeLight, tt.overrides)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFonts(t *testing.T) {
	th := Light()
	assert.Equal(t, "400 14px "+fontFamily, th.BaseFont())
	assert.Equal(t, "600 14px "+fontFamily, th.HeaderFont())
	assert.Equal(t, "600 14px "+fontFamily, th.MarkerFont())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#2F8BFF", want: color.NRGBA{R: 0x2F, G: 0x8B, B: 0xFF, A: 0xFF}},
		{in: "#fff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "#00000080", want: color.NRGBA{A: 0x80}},
		{in: "rgba(36, 31, 47, 0.12)", want: color.NRGBA{R: 36, G: 31, B: 47, A: 31}},
		{in: "rgba(255,255,255,0.1)", want: color.NRGBA{R: 255, G: 255, B: 255, A: 26}},
		{in: "rgb(1, 2, 3)", want: color.NRGBA{R: 1, G: 2, B: 3, A: 255}},
		{in: "blue", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "rgba(1, 2, 3)", wantErr: true},
		{in: "rgb(300, 0, 0)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorFallbackAndAlpha(t *testing.T) {
	fallback := color.NRGBA{R: 9, A: 255}
	assert.Equal(t, fallback, Color("???", fallback))
	assert.Equal(t, color.NRGBA{R: 0x61, G: 0xb2, B: 0xc7, A: 20}, WithAlpha(Color("#61b2c7", fallback), 0.08))
}
