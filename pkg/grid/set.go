package grid

import (
	"github.com/matzehuels/colgrid/pkg/errors"
)

// ChangeKind classifies a structural change of a Set.
type ChangeKind uint8

const (
	Added ChangeKind = iota
	Removed
	Moved
	Replaced
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	case Replaced:
		return "replaced"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes a structural change of a Set.
type Change struct {
	Kind ChangeKind
	// Column is the added, removed or moved column, or the incoming column of
	// a replacement. Nil for Reset.
	Column *Column
	// Old is the outgoing column of a replacement.
	Old *Column
	// Index is the storage index the change happened at.
	Index int
	// DisplayIndex is the column's display index after the change. For
	// Removed it is the index the column held.
	DisplayIndex int
	// OldDisplayIndex is the display index before a move.
	OldDisplayIndex int
	// Previous holds the columns dropped by a Reset.
	Previous []*Column
}

// Listener receives Set notifications. The Engine implements it.
type Listener interface {
	OnStructuralChange(Change)
	OnColumnChanged(PropertyChange)
}

// Set is an insertion-ordered collection of columns plus a display order.
//
// Storage order never changes except by removal; display order is a
// permutation of 0..Len()-1 maintained on every mutation.
type Set struct {
	columns  []*Column // storage order
	order    []*Column // display order
	byID     map[ID]*Column
	listener Listener
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byID: make(map[ID]*Column)}
}

// SetListener installs l as the change listener, replacing any previous one.
func (s *Set) SetListener(l Listener) { s.listener = l }

// Len returns the number of columns, visible or not.
func (s *Set) Len() int { return len(s.columns) }

// At returns the column at storage index i.
func (s *Set) At(i int) *Column { return s.columns[i] }

// AtDisplay returns the column at display index d.
func (s *Set) AtDisplay(d int) *Column { return s.order[d] }

// Get returns the column with the given id.
func (s *Set) Get(id ID) (*Column, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// IndexOf returns the storage index of id, or -1.
func (s *Set) IndexOf(id ID) int {
	if c, ok := s.byID[id]; ok {
		return c.index
	}
	return -1
}

// Columns returns the columns in storage order.
func (s *Set) Columns() []*Column {
	out := make([]*Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// DisplayOrder returns the columns in display order.
func (s *Set) DisplayOrder() []*Column {
	out := make([]*Column, len(s.order))
	copy(out, s.order)
	return out
}

// VisibleColumns returns the visible columns in display order.
func (s *Set) VisibleColumns() []*Column {
	var out []*Column
	for _, c := range s.order {
		if c.visible {
			out = append(out, c)
		}
	}
	return out
}

// Insert appends c at the next display index.
func (s *Set) Insert(c *Column) error {
	return s.InsertAt(c, len(s.columns))
}

// InsertAt adds c at display index d. Columns at or after d shift right.
func (s *Set) InsertAt(c *Column, d int) error {
	if err := s.checkNew(c); err != nil {
		return err
	}
	if d < 0 || d > len(s.columns) {
		return errors.New(errors.ErrCodeInvalidDisplayIndex, "display index %d out of range [0, %d]", d, len(s.columns))
	}

	c.owner = s
	c.index = len(s.columns)
	s.columns = append(s.columns, c)
	s.byID[c.id] = c

	s.order = append(s.order, nil)
	copy(s.order[d+1:], s.order[d:])
	s.order[d] = c
	s.renumber(d, len(s.order))

	s.emit(Change{Kind: Added, Column: c, Index: c.index, DisplayIndex: d})
	return nil
}

// Move changes the display index of the column at display index from to to.
// Storage order is unchanged.
func (s *Set) Move(from, to int) error {
	n := len(s.order)
	if from < 0 || from >= n {
		return errors.New(errors.ErrCodeInvalidDisplayIndex, "display index %d out of range [0, %d)", from, n)
	}
	if to < 0 || to >= n {
		return errors.New(errors.ErrCodeInvalidDisplayIndex, "display index %d out of range [0, %d)", to, n)
	}
	if from == to {
		return nil
	}
	c := s.order[from]
	if from < to {
		copy(s.order[from:to], s.order[from+1:to+1])
		s.order[to] = c
		s.renumber(from, to+1)
	} else {
		copy(s.order[to+1:from+1], s.order[to:from])
		s.order[to] = c
		s.renumber(to, from+1)
	}
	s.emit(Change{Kind: Moved, Column: c, Index: c.index, DisplayIndex: to, OldDisplayIndex: from})
	return nil
}

// MoveColumn moves the column with the given id to display index to.
func (s *Set) MoveColumn(id ID, to int) error {
	c, ok := s.byID[id]
	if !ok {
		return errors.New(errors.ErrCodeColumnNotFound, "column %q not found", id)
	}
	return s.Move(c.displayIndex, to)
}

// Remove removes the column with the given id.
func (s *Set) Remove(id ID) error {
	c, ok := s.byID[id]
	if !ok {
		return errors.New(errors.ErrCodeColumnNotFound, "column %q not found", id)
	}
	return s.RemoveAt(c.index)
}

// RemoveAt removes the column at storage index i and closes the gap in both
// storage and display order.
func (s *Set) RemoveAt(i int) error {
	if i < 0 || i >= len(s.columns) {
		return errors.New(errors.ErrCodeColumnNotFound, "storage index %d out of range [0, %d)", i, len(s.columns))
	}
	c := s.columns[i]
	d := c.displayIndex

	s.columns = append(s.columns[:i], s.columns[i+1:]...)
	for j := i; j < len(s.columns); j++ {
		s.columns[j].index = j
	}
	s.order = append(s.order[:d], s.order[d+1:]...)
	s.renumber(d, len(s.order))
	delete(s.byID, c.id)

	c.owner = nil
	c.index = -1
	c.displayIndex = -1
	s.emit(Change{Kind: Removed, Column: c, Index: i, DisplayIndex: d})
	return nil
}

// Replace swaps the column at storage index i for c, keeping its storage and
// display index.
func (s *Set) Replace(i int, c *Column) error {
	if i < 0 || i >= len(s.columns) {
		return errors.New(errors.ErrCodeColumnNotFound, "storage index %d out of range [0, %d)", i, len(s.columns))
	}
	old := s.columns[i]
	if c == nil {
		return errors.New(errors.ErrCodeInvalidInput, "replacement column is nil")
	}
	if c.id != old.id {
		if err := s.checkNew(c); err != nil {
			return err
		}
	} else if c.owner != nil && c != old {
		return errors.New(errors.ErrCodeDuplicateColumn, "column %q already belongs to a set", c.id)
	}
	if c == old {
		return nil
	}

	delete(s.byID, old.id)
	c.owner, c.index, c.displayIndex = s, i, old.displayIndex
	s.columns[i] = c
	s.order[c.displayIndex] = c
	s.byID[c.id] = c
	old.owner, old.index, old.displayIndex = nil, -1, -1

	s.emit(Change{Kind: Replaced, Column: c, Old: old, Index: i, DisplayIndex: c.displayIndex})
	return nil
}

// Reset replaces the whole set. displayIndices, if non-nil, gives each
// column's display index and must be a permutation of 0..len(cols)-1. On
// error the set is unchanged.
func (s *Set) Reset(cols []*Column, displayIndices []int) error {
	n := len(cols)
	if displayIndices != nil && len(displayIndices) != n {
		return errors.New(errors.ErrCodeInvalidDisplayIndex, "got %d display indices for %d columns", len(displayIndices), n)
	}

	seen := make(map[ID]struct{}, n)
	for _, c := range cols {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidInput, "column is nil")
		}
		if err := errors.ValidateColumnID(string(c.id)); err != nil {
			return err
		}
		if _, dup := seen[c.id]; dup {
			return errors.New(errors.ErrCodeDuplicateColumn, "duplicate column id %q", c.id)
		}
		if c.owner != nil && c.owner != s {
			return errors.New(errors.ErrCodeDuplicateColumn, "column %q already belongs to another set", c.id)
		}
		seen[c.id] = struct{}{}
	}

	order := make([]*Column, n)
	for i, c := range cols {
		d := i
		if displayIndices != nil {
			d = displayIndices[i]
		}
		if d < 0 || d >= n {
			return errors.New(errors.ErrCodeInvalidDisplayIndex, "display index %d out of range [0, %d)", d, n)
		}
		if order[d] != nil {
			return errors.New(errors.ErrCodeDuplicateDisplayIndex, "display index %d assigned to %q and %q", d, order[d].id, c.id)
		}
		order[d] = c
	}

	previous := s.columns
	for _, c := range previous {
		c.owner, c.index, c.displayIndex = nil, -1, -1
	}

	s.columns = make([]*Column, n)
	copy(s.columns, cols)
	s.order = order
	s.byID = make(map[ID]*Column, n)
	for i, c := range s.columns {
		c.owner = s
		c.index = i
		s.byID[c.id] = c
	}
	s.renumber(0, n)

	s.emit(Change{Kind: Reset, Index: -1, DisplayIndex: -1, Previous: previous})
	return nil
}

func (s *Set) checkNew(c *Column) error {
	if c == nil {
		return errors.New(errors.ErrCodeInvalidInput, "column is nil")
	}
	if err := errors.ValidateColumnID(string(c.id)); err != nil {
		return err
	}
	if _, dup := s.byID[c.id]; dup {
		return errors.New(errors.ErrCodeDuplicateColumn, "duplicate column id %q", c.id)
	}
	if c.owner != nil {
		return errors.New(errors.ErrCodeDuplicateColumn, "column %q already belongs to a set", c.id)
	}
	return nil
}

func (s *Set) renumber(from, to int) {
	for d := from; d < to; d++ {
		s.order[d].displayIndex = d
	}
}

func (s *Set) emit(ch Change) {
	if s.listener != nil {
		s.listener.OnStructuralChange(ch)
	}
}

func (s *Set) columnChanged(pc PropertyChange) {
	if s.listener != nil {
		s.listener.OnColumnChanged(pc)
	}
}
