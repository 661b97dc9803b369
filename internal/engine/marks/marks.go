package marks

import (
	"sort"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Kind tags marks by purpose, such as "breakpoint" or "diagnostic".
type Kind string

// Mark tracks a position across edits. The zero value is not usable; marks
// are created by Tracker.Insert.
type Mark struct {
	tracker *Tracker
	kind    Kind
	pos     buffer.Position
	gravity Gravity
	index   int // position in tracker.marks, -1 once deleted
}

// Pos returns the current position of the mark. A deleted mark returns
// NullPosition.
func (m *Mark) Pos() buffer.Position {
	if m.index < 0 {
		return buffer.NullPosition
	}
	return m.pos
}

// Kind returns the kind the mark was inserted with.
func (m *Mark) Kind() Kind {
	return m.kind
}

// Gravity returns the gravity of the mark.
func (m *Mark) Gravity() Gravity {
	return m.gravity
}

// SetGravity changes the gravity of the mark.
func (m *Mark) SetGravity(g Gravity) {
	m.gravity = g
}

// Deleted reports whether the mark was removed from its tracker.
func (m *Mark) Deleted() bool {
	return m.index < 0
}

// Delete removes the mark from its tracker. Deleting twice is a no-op.
func (m *Mark) Delete() {
	if m.index < 0 {
		return
	}
	t := m.tracker
	last := len(t.marks) - 1
	t.marks[m.index] = t.marks[last]
	t.marks[m.index].index = m.index
	t.marks[last] = nil
	t.marks = t.marks[:last]
	m.index = -1
}

// Tracker holds marks and moves them with every edit.
// It is not safe for concurrent use.
type Tracker struct {
	marks []*Mark
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Insert creates a mark of the given kind at pos with Right gravity.
func (t *Tracker) Insert(kind Kind, pos buffer.Position) *Mark {
	return t.InsertWithGravity(kind, pos, Right)
}

// InsertWithGravity creates a mark of the given kind and gravity at pos.
func (t *Tracker) InsertWithGravity(kind Kind, pos buffer.Position, g Gravity) *Mark {
	m := &Mark{
		tracker: t,
		kind:    kind,
		pos:     pos,
		gravity: g,
		index:   len(t.marks),
	}
	t.marks = append(t.marks, m)
	return m
}

// Len returns the number of live marks.
func (t *Tracker) Len() int {
	return len(t.marks)
}

// ApplyEdit moves every mark after [oldStart, oldEnd) was replaced by text
// ending at newEnd.
func (t *Tracker) ApplyEdit(oldStart, oldEnd, newEnd buffer.Position) {
	for _, m := range t.marks {
		m.pos = Transform(m.pos, oldStart, oldEnd, newEnd, m.gravity)
	}
}

// Marks returns the live marks of kind, or every live mark when kind is
// empty, ordered by position.
func (t *Tracker) Marks(kind Kind) []*Mark {
	var out []*Mark
	for _, m := range t.marks {
		if kind == "" || m.kind == kind {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].pos.Before(out[j].pos)
	})
	return out
}

// Clear deletes every mark.
func (t *Tracker) Clear() {
	for _, m := range t.marks {
		m.index = -1
	}
	t.marks = nil
}
