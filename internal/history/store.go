// Package history stores the sequence of canvas snapshots behind undo/redo.
package history

import (
	"image"

	calcimage "smartcalc/internal/image"
)

// Store is an arena of committed canvas snapshots plus a cursor marking the
// visible one. A cursor of -1 means the canvas is empty. Snapshots past the
// cursor can be redone until the next Commit discards them.
//
// Store is not safe for concurrent use; the owning session serializes access.
type Store struct {
	snapshots []*image.RGBA
	cursor    int
}

// NewStore creates an empty history.
func NewStore() *Store {
	return &Store{cursor: -1}
}

// Commit stores a private copy of snapshot directly after the cursor,
// dropping any redo-able snapshots, and makes it current.
func (s *Store) Commit(snapshot *image.RGBA) {
	next := s.cursor + 1
	for i := next; i < len(s.snapshots); i++ {
		s.snapshots[i] = nil
	}
	s.snapshots = append(s.snapshots[:next], calcimage.Clone(snapshot))
	s.cursor = next
}

// StepBackward moves the cursor one snapshot back. It never goes below -1.
// It reports whether the cursor moved; when Cursor() is -1 afterwards the
// caller should clear the visible canvas.
func (s *Store) StepBackward() bool {
	if s.cursor < 0 {
		return false
	}
	s.cursor--
	return true
}

// StepForward moves the cursor one snapshot forward if one exists.
func (s *Store) StepForward() bool {
	if s.cursor+1 >= len(s.snapshots) {
		return false
	}
	s.cursor++
	return true
}

// Current returns the snapshot at the cursor. The second result is false
// when the canvas is empty. The returned image belongs to the store and
// must not be modified.
func (s *Store) Current() (*image.RGBA, bool) {
	if s.cursor < 0 {
		return nil, false
	}
	return s.snapshots[s.cursor], true
}

// Cursor returns the current index, -1 for the empty canvas.
func (s *Store) Cursor() int { return s.cursor }

// Len returns the number of stored snapshots, including redo-able ones.
func (s *Store) Len() int { return len(s.snapshots) }

// CanUndo reports whether StepBackward would move the cursor.
func (s *Store) CanUndo() bool { return s.cursor >= 0 }

// CanRedo reports whether StepForward would move the cursor.
func (s *Store) CanRedo() bool { return s.cursor+1 < len(s.snapshots) }

// Reset discards every snapshot.
func (s *Store) Reset() {
	s.snapshots = nil
	s.cursor = -1
}
