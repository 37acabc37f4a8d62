package overlay

import (
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Option is one choice of a dropdown.
type Option struct {
	Value string
	Label string
	Color types.TagColor
}

// Dropdown picks one value from a fixed option list. It edits a tags cell
// whose single tag is the value, written back under the payload's key.
type Dropdown struct {
	session
	options []Option
	key     string
	staged  string
}

// NewDropdown opens a dropdown on the cell's current value.
func NewDropdown(rowID int, columnID string, current types.Tags, options []Option) *Dropdown {
	d := &Dropdown{
		session: newSession(rowID, columnID),
		options: append([]Option(nil), options...),
		key:     current.Key,
	}
	if len(current.Tags) > 0 {
		d.staged = current.Tags[0]
	}
	return d
}

// Options returns the choices in menu order.
func (d *Dropdown) Options() []Option { return append([]Option(nil), d.options...) }

// Staged returns the staged value, or "" when none is staged.
func (d *Dropdown) Staged() string { return d.staged }

// Stage selects value without committing. Values outside the option list
// are ignored.
func (d *Dropdown) Stage(value string) {
	if !d.open || d.index(value) < 0 {
		return
	}
	d.staged = value
}

// Move stages the option delta steps away from the staged one, wrapping at
// either end.
func (d *Dropdown) Move(delta int) {
	n := len(d.options)
	if n == 0 {
		return
	}
	i := d.index(d.staged)
	if i < 0 {
		i = 0
		if delta > 0 {
			delta--
		}
	}
	i = ((i+delta)%n + n) % n
	d.Stage(d.options[i].Value)
}

// Select stages value, commits it and closes.
func (d *Dropdown) Select(value string) (Commit, bool) {
	d.Stage(value)
	return d.Confirm()
}

// Confirm implements Overlay.
func (d *Dropdown) Confirm() (Commit, bool) { return d.finish(d.edit(d.staged)) }

// OutsideClick implements Overlay.
func (d *Dropdown) OutsideClick() (Commit, bool) { return d.finish(d.edit(d.staged)) }

// Escape implements Overlay.
func (d *Dropdown) Escape() (Commit, bool) { return d.finish(d.edit(d.staged)) }

// Delete implements Overlay. The committed value has no tags, which clears
// the field.
func (d *Dropdown) Delete() (Commit, bool) { return d.finish(d.edit("")) }

func (d *Dropdown) edit(value string) types.CellValue {
	tags := types.Tags{Key: d.key, Colors: make(map[string]types.TagColor, len(d.options))}
	for _, o := range d.options {
		tags.Colors[o.Value] = o.Color
	}
	if value != "" {
		tags.Tags = []string{value}
	}
	return types.CustomCell{Payload: tags}
}

func (d *Dropdown) index(value string) int {
	for i, o := range d.options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

var (
	_ Overlay = (*DatePicker)(nil)
	_ Overlay = (*Dropdown)(nil)
)
