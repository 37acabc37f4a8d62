package overlay

import (
	"time"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// DatePicker edits a date cell.
type DatePicker struct {
	session
	staged *time.Time
}

// NewDatePicker opens a picker on the cell's current date.
func NewDatePicker(rowID int, columnID string, current types.Date) *DatePicker {
	p := &DatePicker{session: newSession(rowID, columnID)}
	if current.Time != nil {
		t := *current.Time
		p.staged = &t
	}
	return p
}

// Staged returns the staged date, or nil when nothing is staged.
func (p *DatePicker) Staged() *time.Time {
	if p.staged == nil {
		return nil
	}
	t := *p.staged
	return &t
}

// Stage replaces the staged date without committing.
func (p *DatePicker) Stage(t time.Time) {
	if !p.open {
		return
	}
	p.staged = &t
}

// Shift moves the staged date by days. With nothing staged it starts from
// today.
func (p *DatePicker) Shift(days int, now time.Time) {
	base := now
	if p.staged != nil {
		base = *p.staged
	}
	p.Stage(base.AddDate(0, 0, days))
}

// Select stages t, commits it and closes.
func (p *DatePicker) Select(t time.Time) (Commit, bool) {
	p.Stage(t)
	return p.Confirm()
}

// Confirm implements Overlay.
func (p *DatePicker) Confirm() (Commit, bool) { return p.commitStaged() }

// OutsideClick implements Overlay.
func (p *DatePicker) OutsideClick() (Commit, bool) { return p.commitStaged() }

// Escape implements Overlay.
func (p *DatePicker) Escape() (Commit, bool) { return p.commitStaged() }

// Delete implements Overlay. The committed value carries a nil instant,
// which clears the date.
func (p *DatePicker) Delete() (Commit, bool) {
	return p.finish(types.CustomCell{Payload: types.Date{}})
}

// commitStaged commits only a staged date; with nothing staged the picker
// just closes.
func (p *DatePicker) commitStaged() (Commit, bool) {
	if p.staged == nil {
		p.finish(nil)
		return Commit{}, false
	}
	return p.finish(types.CustomCell{Payload: types.Date{Time: p.Staged()}})
}
