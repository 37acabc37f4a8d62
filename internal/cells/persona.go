package cells

import (
	"image/color"

	"github.com/mesh-intelligence/griddle/internal/canvas"
	"github.com/mesh-intelligence/griddle/internal/theme"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Persona layout.
const (
	personaMaxAvatar = 40
	personaInsetY    = 14
	personaInsetX    = 10
	personaNameGap   = 12
	personaFontStyle = "600 15px"
)

// Persona draws a circular avatar followed by a name.
type Persona struct{}

// Kind implements Renderer.
func (Persona) Kind() types.CustomKind { return types.CustomPersona }

// IsMatch implements Renderer.
func (Persona) IsMatch(c types.CustomCell) bool { return types.IsCustomKind(c, types.CustomPersona) }

// Draw implements Renderer. A missing avatar never blocks: the image cache
// remembers the cell and the name is drawn right away.
func (Persona) Draw(args DrawArgs, c types.CustomCell) {
	p, _ := c.Payload.(types.Persona)
	r := args.Rect
	size := min(r.Height-personaInsetY, personaMaxAvatar)
	avatar := types.Rect{
		X:      r.X + personaInsetX,
		Y:      r.CenterY() - size/2,
		Width:  size,
		Height: size,
	}

	if p.Avatar != "" && args.Images != nil && size > 0 {
		if img, ok := args.Images.LoadOrGet(p.Avatar, args.Item); ok {
			args.Canvas.DrawImageCircle(img, avatar)
		}
	}

	f := canvas.ParseFont(personaFontStyle + " " + args.Theme.FontFamily)
	fg := theme.Color(args.Theme.TextDark, color.Black)
	args.Canvas.Text(avatar.Right()+personaNameGap, middle(r, f), p.Name, f, fg)
}

// Text implements Renderer.
func (Persona) Text(c types.CustomCell, width int) string {
	p, _ := c.Payload.(types.Persona)
	return truncate("● "+p.Name, width)
}
