package cells

import (
	"github.com/mesh-intelligence/griddle/internal/overlay"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// DateEditor opens a date picker on date cells.
type DateEditor struct{}

// Editor implements EditorProvider.
func (DateEditor) Editor(c types.CustomCell, rowID int, columnID string) (overlay.Overlay, bool) {
	p, ok := c.Payload.(types.Date)
	if !ok {
		return nil, false
	}
	return overlay.NewDatePicker(rowID, columnID, p), true
}

// DropdownEditor opens a dropdown on tags cells whose payload key has a
// registered option list. Tags cells without a key are display only.
type DropdownEditor struct {
	Options map[string][]overlay.Option
}

// Editor implements EditorProvider.
func (d DropdownEditor) Editor(c types.CustomCell, rowID int, columnID string) (overlay.Overlay, bool) {
	p, ok := c.Payload.(types.Tags)
	if !ok || p.Key == "" {
		return nil, false
	}
	opts, ok := d.Options[p.Key]
	if !ok || len(opts) == 0 {
		return nil, false
	}
	return overlay.NewDropdown(rowID, columnID, p, opts), true
}

// Default returns a registry with the sparkline, persona, tags and date
// renderers. Date cells get a date picker; tags cells get a dropdown when
// dropdowns names options for their key.
func Default(dropdowns map[string][]overlay.Option, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.mustRegister(Sparkline{}, nil)
	r.mustRegister(Persona{}, nil)
	r.mustRegister(Tags{}, DropdownEditor{Options: dropdowns})
	r.mustRegister(Date{}, DateEditor{})
	return r
}

// mustRegister is Register for the built-in renderers. It panics on a kind
// collision.
func (r *Registry) mustRegister(rd Renderer, editor EditorProvider) {
	if err := r.Register(rd, editor); err != nil {
		panic(err)
	}
}
