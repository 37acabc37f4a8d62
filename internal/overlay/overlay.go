// Package overlay implements the edit overlays opened over custom cells: a
// date picker and a dropdown picker.
//
// An overlay stages a value while open and produces at most one Commit.
// Outside clicks and Escape commit the staged value, an explicit pick
// commits and closes, Delete commits the column's empty value, and Close
// ends the session without committing anything.
package overlay

import (
	"github.com/google/uuid"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Commit is the single write an overlay session produces. The target is
// identified by row ID so a re-sort while the overlay is open cannot redirect
// the write to another row.
type Commit struct {
	Session  uuid.UUID
	RowID    int
	ColumnID string
	Edit     types.CellValue
}

// Overlay is an open edit session over one cell.
type Overlay interface {
	Session() uuid.UUID
	Target() (rowID int, columnID string)
	IsOpen() bool

	// Confirm commits the staged value and closes.
	Confirm() (Commit, bool)
	// OutsideClick commits the staged value and closes.
	OutsideClick() (Commit, bool)
	// Escape commits the staged value and closes. There is no separate
	// cancel path that discards the staged value.
	Escape() (Commit, bool)
	// Delete commits the empty value and closes.
	Delete() (Commit, bool)
	// Close ends the session without a commit.
	Close()
}

// session carries the state every overlay shares: identity, target and the
// open flag that guarantees a single commit.
type session struct {
	id       uuid.UUID
	rowID    int
	columnID string
	open     bool
}

func newSession(rowID int, columnID string) session {
	return session{id: uuid.New(), rowID: rowID, columnID: columnID, open: true}
}

func (s *session) Session() uuid.UUID    { return s.id }
func (s *session) Target() (int, string) { return s.rowID, s.columnID }
func (s *session) IsOpen() bool          { return s.open }
func (s *session) Close()                { s.open = false }

// finish closes the session and returns a commit for edit. It returns false
// if the session was already closed or edit is nil.
func (s *session) finish(edit types.CellValue) (Commit, bool) {
	if !s.open {
		return Commit{}, false
	}
	s.open = false
	if edit == nil {
		return Commit{}, false
	}
	return Commit{Session: s.id, RowID: s.rowID, ColumnID: s.columnID, Edit: edit}, true
}
