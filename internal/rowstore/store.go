// Package rowstore holds the canonical, ordered sequence of grid rows.
//
// The store is the single source of truth for row content. Rows keep their
// insertion order; sorting is a view concern and never reorders the store.
// Every mutation bumps Version so derived state (sorted views, footer
// caches, numeric detection) can tell when it is stale.
package rowstore

import (
	"sync"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Store is an ordered collection of records indexed by their row ID.
type Store[T types.Record] struct {
	mu      sync.RWMutex
	rows    []T
	index   map[int]int // row ID -> position in rows
	version uint64
}

// New returns a store holding a copy of rows. It returns ErrInvalidID for a
// row whose ID is not positive and ErrDuplicateID when two rows share an ID.
func New[T types.Record](rows []T) (*Store[T], error) {
	s := &Store[T]{}
	if err := s.load(rows); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[T]) load(rows []T) error {
	index := make(map[int]int, len(rows))
	for i, r := range rows {
		id := r.RowID()
		if id <= 0 {
			return types.ErrInvalidID
		}
		if _, dup := index[id]; dup {
			return types.ErrDuplicateID
		}
		index[id] = i
	}
	s.rows = append(make([]T, 0, len(rows)), rows...)
	s.index = index
	s.version++
	return nil
}

// Get returns the row with the given ID.
// Returns ErrInvalidID if id is not positive, ErrNotFound if absent.
func (s *Store[T]) Get(id int) (T, error) {
	var zero T
	if id <= 0 {
		return zero, types.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return zero, types.ErrNotFound
	}
	return s.rows[pos], nil
}

// Put replaces the stored row that has the same ID as row, keeping its
// position. Returns ErrNotFound if no row has that ID.
func (s *Store[T]) Put(row T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[row.RowID()]
	if !ok {
		return types.ErrNotFound
	}
	s.rows[pos] = row
	s.version++
	return nil
}

// Append creates a row with the next identifier (max existing ID + 1, or 1
// when the store is empty) using blank and adds it at the end.
// Returns ErrInvalidID if blank returns a row carrying a different ID.
func (s *Store[T]) Append(blank types.BlankRowFunc[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.maxID() + 1
	row := blank(id)
	if row.RowID() != id {
		var zero T
		return zero, types.ErrInvalidID
	}
	s.index[id] = len(s.rows)
	s.rows = append(s.rows, row)
	s.version++
	return row, nil
}

// DeleteIDs removes every row whose ID is in ids and returns how many rows
// were removed. Rows not named in ids are never touched, and the relative
// order of the survivors is preserved.
func (s *Store[T]) DeleteIDs(ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]T, 0, len(s.rows))
	index := make(map[int]int, len(s.rows))
	for _, r := range s.rows {
		if drop[r.RowID()] {
			continue
		}
		index[r.RowID()] = len(kept)
		kept = append(kept, r)
	}
	removed := len(s.rows) - len(kept)
	if removed == 0 {
		return 0
	}
	s.rows = kept
	s.index = index
	s.version++
	return removed
}

// Replace swaps the whole content of the store, e.g. after regenerating
// sample data. The same ID rules as New apply; on error the store is left
// unchanged.
func (s *Store[T]) Replace(rows []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevIndex := s.rows, s.index
	if err := s.load(rows); err != nil {
		s.rows, s.index = prev, prevIndex
		return err
	}
	return nil
}

// Fetch returns the rows that satisfy pred, in store order. A nil pred
// matches every row.
func (s *Store[T]) Fetch(pred func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.rows))
	for _, r := range s.rows {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// All returns a copy of every row in store order.
func (s *Store[T]) All() []T {
	return s.Fetch(nil)
}

// Len returns the number of rows.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Version returns a counter that changes on every mutation.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store[T]) maxID() int {
	top := 0
	for id := range s.index {
		if id > top {
			top = id
		}
	}
	return top
}
