package tui

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/griddle/internal/theme"
)

// styles are the lipgloss styles of one theme variant.
type styles struct {
	group    lipgloss.Style
	header   lipgloss.Style
	sorted   lipgloss.Style
	cell     lipgloss.Style
	link     lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	marker   lipgloss.Style
	footer   lipgloss.Style
	prompt   lipgloss.Style
	dim      lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	option   lipgloss.Style
	picked   lipgloss.Style
}

func newStyles(th theme.Theme) styles {
	bg := hex(th.BgCell, color.White)
	return styles{
		group:    lipgloss.NewStyle().Bold(true).Foreground(hex(th.TextGroupHeader, color.Black)).Background(hex(th.BgHeader, color.White)),
		header:   lipgloss.NewStyle().Bold(true).Foreground(hex(th.TextHeader, color.Black)).Background(hex(th.BgHeader, color.White)),
		sorted:   lipgloss.NewStyle().Bold(true).Foreground(hex(th.AccentColor, color.Black)).Background(hex(th.BgHeaderHasFocus, color.White)),
		cell:     lipgloss.NewStyle().Foreground(hex(th.TextDark, color.Black)).Background(bg),
		link:     lipgloss.NewStyle().Foreground(hex(th.LinkColor, color.Black)).Background(bg),
		cursor:   lipgloss.NewStyle().Foreground(hex(th.AccentFg, color.White)).Background(hex(th.AccentColor, color.Black)),
		selected: lipgloss.NewStyle().Foreground(hex(th.TextDark, color.Black)).Background(blend(th.AccentLight, th.BgCell)),
		marker:   lipgloss.NewStyle().Foreground(hex(th.TextLight, color.Gray{Y: 0x9e})).Background(bg),
		footer:   lipgloss.NewStyle().Foreground(hex(th.TextDark, color.Black)).Background(hex(th.BgCellMedium, color.White)),
		prompt:   lipgloss.NewStyle().Foreground(hex(th.TextLight, color.Gray{Y: 0x9e})).Background(hex(th.BgCellMedium, color.White)),
		dim:      lipgloss.NewStyle().Foreground(hex(th.TextMedium, color.Gray{Y: 0x75})),
		status:   lipgloss.NewStyle().Foreground(hex(th.AccentColor, color.Black)),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		option:   lipgloss.NewStyle().Foreground(hex(th.TextBubble, color.Black)).Background(hex(th.BgBubble, color.White)).Padding(0, 1),
		picked:   lipgloss.NewStyle().Bold(true).Foreground(hex(th.AccentFg, color.White)).Background(hex(th.AccentColor, color.Black)).Padding(0, 1),
	}
}

// hex converts a theme colour to a terminal colour. Terminal colours have
// no alpha, so translucent tokens are used at full strength.
func hex(s string, fallback color.Color) lipgloss.Color {
	c := theme.Color(s, fallback)
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

// blend composites a translucent token over an opaque background.
func blend(over, under string) lipgloss.Color {
	o, err := theme.ParseColor(over)
	if err != nil {
		return hex(under, color.White)
	}
	u := theme.Color(under, color.White)
	ur, ug, ub, _ := u.RGBA()
	a := float64(o.A) / 255
	mix := func(top uint8, bottom uint32) uint8 {
		return uint8(float64(top)*a + float64(bottom>>8)*(1-a) + 0.5)
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", mix(o.R, ur), mix(o.G, ug), mix(o.B, ub)))
}
