package view

import (
	"slices"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// EventKind says what part of the view changed.
type EventKind int

// Change notifications.
const (
	// EventRows: row content changed (edit, add, delete, replace).
	EventRows EventKind = iota
	// EventSort: the sort changed and with it the visible order.
	EventSort
	// EventColumns: a column was resized or the columns were replaced.
	EventColumns
	// EventSelection: the row selection changed.
	EventSelection
	// EventViewport: the surface scrolled.
	EventViewport
)

var eventKindNames = [...]string{
	EventRows:      "rows",
	EventSort:      "sort",
	EventColumns:   "columns",
	EventSelection: "selection",
	EventViewport:  "viewport",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is delivered to subscribers after a change. RowID is set when a
// single row changed; Item carries the column or row position when one is
// involved, with -1 for the other axis.
type Event struct {
	Kind  EventKind
	RowID int
	Item  types.Item
}

// Subscribe registers fn for change events and returns a function that
// removes it. Events are delivered synchronously, outside the controller's
// lock, in subscription order.
func (c *Controller[T]) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Controller[T]) emit(e Event) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(Event), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
