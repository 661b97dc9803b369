package history

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/pool"
)

// Applier applies the inverse or the replay of a change as a single
// replacement, so limits are checked against the text the change restores
// and never against an intermediate join. The edit engine implements it with
// recording switched off; a *buffer.Buffer is one too.
type Applier interface {
	Replace(start, end buffer.Position, runs []rune) (buffer.Position, error)
}

// History is a fixed-capacity ring of undo groups.
// It is not safe for concurrent use.
type History struct {
	capacity int
	slots    []group
	start    int
	curr     int
	top      int

	changes []Change
	free    []int32
	arena   *pool.Arena

	boundary bool
	batch    int
	scratch  []rune
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{
		capacity: DefaultCapacity,
		boundary: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.arena == nil {
		h.arena = pool.NewArena()
	}
	h.slots = make([]group, h.capacity+1)
	for i := range h.slots {
		h.slots[i] = emptyGroup
	}
	return h
}

// Capacity returns the maximum number of retained groups.
func (h *History) Capacity() int {
	return h.capacity
}

func (h *History) wrap(i int) int {
	n := len(h.slots)
	return ((i % n) + n) % n
}

// Len returns the number of retained groups.
func (h *History) Len() int {
	return h.wrap(h.top - h.start)
}

// UndoDepth returns how many groups Undo can revert.
func (h *History) UndoDepth() int {
	return h.wrap(h.curr - h.start)
}

// RedoDepth returns how many groups Redo can reapply.
func (h *History) RedoDepth() int {
	return h.wrap(h.top - h.curr)
}

// CanUndo reports whether Undo would revert a group.
func (h *History) CanUndo() bool {
	return h.curr != h.start
}

// CanRedo reports whether Redo would reapply a group.
func (h *History) CanRedo() bool {
	return h.curr != h.top
}

// Boundary forces the next recorded edit into a new group. It has no
// effect inside a batch.
func (h *History) Boundary() {
	if h.batch == 0 {
		h.boundary = true
	}
}

// Clear drops every group, for example after the buffer was reloaded.
func (h *History) Clear() {
	for i := h.start; i != h.top; i = h.wrap(i + 1) {
		h.freeGroup(i)
	}
	h.start, h.curr, h.top = 0, 0, 0
	h.boundary = true
}

// push opens a new group at curr and returns its slot. Groups in
// [curr, top) are discarded; the oldest group is evicted when the ring is full.
func (h *History) push() int {
	for i := h.curr; i != h.top; i = h.wrap(i + 1) {
		h.freeGroup(i)
	}
	slot := h.curr
	h.curr = h.wrap(h.curr + 1)
	h.top = h.curr
	if h.curr == h.start {
		tracer().Debugf("history: ring full, evicting oldest group")
		h.freeGroup(h.start)
		h.start = h.wrap(h.start + 1)
	}
	h.boundary = false
	return slot
}

// pop drops the newest group. It is used when coalescing empties it.
func (h *History) pop() {
	h.curr = h.wrap(h.curr - 1)
	h.freeGroup(h.curr)
	h.top = h.curr
	h.boundary = true
}

// Undo reverts the group before curr through a. It returns the start of the
// group's first change, or NullPosition and false when nothing is left.
func (h *History) Undo(a Applier) (buffer.Position, bool) {
	if h.curr == h.start {
		return buffer.NullPosition, false
	}
	h.curr = h.wrap(h.curr - 1)
	g := h.slots[h.curr]
	for i := g.tail; i != noChange; i = h.changes[i].prev {
		c := h.changes[i]
		h.scratch = h.linearize(c.oldText)
		if _, err := a.Replace(c.Start, c.NewEnd, h.scratch); err != nil {
			h.fail("undo", err)
		}
	}
	h.boundary = true
	return h.changes[g.head].Start, true
}

// Redo reapplies the group at curr through a. It returns the end of the
// group's last change, or NullPosition and false at the newest group.
func (h *History) Redo(a Applier) (buffer.Position, bool) {
	if h.curr == h.top {
		return buffer.NullPosition, false
	}
	g := h.slots[h.curr]
	for i := g.head; i != noChange; i = h.changes[i].next {
		c := h.changes[i]
		h.scratch = h.linearize(c.newText)
		if _, err := a.Replace(c.Start, c.OldEnd, h.scratch); err != nil {
			h.fail("redo", err)
		}
	}
	h.curr = h.wrap(h.curr + 1)
	h.boundary = true
	return h.changes[g.tail].NewEnd, true
}

// linearize copies the chain at t into the scratch slice.
func (h *History) linearize(t pool.Handle) []rune {
	if t == pool.Nil {
		return h.scratch[:0]
	}
	return h.arena.Linearize(h.scratch[:0], t)
}

// fail reports a replay that the buffer rejected. Recorded changes always
// fit the text they were recorded against, so this is a desync.
func (h *History) fail(op string, err error) {
	tracer().Errorf("history: %s failed: %v", op, err)
	panic(fmt.Errorf("history: %s: %w", op, err))
}

// ErrCorrupt is wrapped by the errors CheckInvariants reports.
var ErrCorrupt = errors.New("history: corrupt")

// CheckInvariants verifies the ring indices, the group links and that every
// arena chunk is reachable from a change. It expects an arena of its own
// and no captured Text outstanding.
func (h *History) CheckInvariants() error {
	n := len(h.slots)
	for _, i := range []int{h.start, h.curr, h.top} {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: index %d outside ring of %d", ErrCorrupt, i, n)
		}
	}
	if h.UndoDepth() > h.Len() {
		return fmt.Errorf("%w: curr outside [start, top]", ErrCorrupt)
	}
	live, changes := 0, 0
	for k := 0; k < n; k++ {
		i := h.wrap(h.start + k)
		g := h.slots[i]
		if k >= h.Len() {
			if !g.empty() {
				return fmt.Errorf("%w: slot %d outside [start, top) is in use", ErrCorrupt, i)
			}
			continue
		}
		if g.empty() {
			return fmt.Errorf("%w: slot %d in [start, top) is empty", ErrCorrupt, i)
		}
		prev := int32(noChange)
		for c := g.head; c != noChange; c = h.changes[c].next {
			if h.changes[c].prev != prev {
				return fmt.Errorf("%w: change %d has a broken back link", ErrCorrupt, c)
			}
			for _, t := range []pool.Handle{h.changes[c].oldText, h.changes[c].newText} {
				for ; t != pool.Nil; t = h.arena.Next(t) {
					live++
				}
			}
			prev = c
			changes++
		}
		if prev != g.tail {
			return fmt.Errorf("%w: slot %d tail mismatch", ErrCorrupt, i)
		}
	}
	if changes+len(h.free) != len(h.changes) {
		return fmt.Errorf("%w: %d changes linked, %d free, %d allocated",
			ErrCorrupt, changes, len(h.free), len(h.changes))
	}
	if live != h.arena.Live() {
		return fmt.Errorf("%w: %d chunks reachable, %d live", ErrCorrupt, live, h.arena.Live())
	}
	return nil
}
