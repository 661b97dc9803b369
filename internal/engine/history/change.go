package history

import (
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/pool"
)

// noChange marks the end of a change list.
const noChange = -1

// Change is one recorded edit.
type Change struct {
	Start  buffer.Position
	OldEnd buffer.Position
	NewEnd buffer.Position

	oldText pool.Handle
	newText pool.Handle
	prev    int32
	next    int32
}

// group is a ring slot: the first and last change of an undo group.
type group struct {
	head int32
	tail int32
}

var emptyGroup = group{head: noChange, tail: noChange}

func (g group) empty() bool {
	return g.head == noChange
}

// allocChange stores c in the slab and returns its index.
func (h *History) allocChange(c Change) int32 {
	c.prev, c.next = noChange, noChange
	if n := len(h.free); n > 0 {
		idx := h.free[n-1]
		h.free = h.free[:n-1]
		h.changes[idx] = c
		return idx
	}
	h.changes = append(h.changes, c)
	return int32(len(h.changes) - 1)
}

// freeChange releases a change and its text chains.
func (h *History) freeChange(idx int32) {
	c := &h.changes[idx]
	h.arena.FreeChain(c.oldText)
	h.arena.FreeChain(c.newText)
	*c = Change{prev: noChange, next: noChange}
	h.free = append(h.free, idx)
}

// appendChange links a new change at the end of slot i.
func (h *History) appendChange(i int, c Change) {
	idx := h.allocChange(c)
	g := &h.slots[i]
	if g.empty() {
		g.head, g.tail = idx, idx
		return
	}
	h.changes[g.tail].next = idx
	h.changes[idx].prev = g.tail
	g.tail = idx
}

// freeGroup releases every change of slot i and empties the slot.
func (h *History) freeGroup(i int) {
	for c := h.slots[i].head; c != noChange; {
		next := h.changes[c].next
		h.freeChange(c)
		c = next
	}
	h.slots[i] = emptyGroup
}

// ChangeInfo is a copy of a recorded change for inspection.
type ChangeInfo struct {
	Start   buffer.Position
	OldEnd  buffer.Position
	NewEnd  buffer.Position
	OldText string
	NewText string
}

func (h *History) info(c *Change) ChangeInfo {
	return ChangeInfo{
		Start:   c.Start,
		OldEnd:  c.OldEnd,
		NewEnd:  c.NewEnd,
		OldText: string(h.arena.Linearize(nil, c.oldText)),
		NewText: string(h.arena.Linearize(nil, c.newText)),
	}
}

// Group returns the changes of the i-th retained group, oldest first.
// It returns nil if i is out of range.
func (h *History) Group(i int) []ChangeInfo {
	if i < 0 || i >= h.Len() {
		return nil
	}
	slot := (h.start + i) % len(h.slots)
	var out []ChangeInfo
	for c := h.slots[slot].head; c != noChange; c = h.changes[c].next {
		out = append(out, h.info(&h.changes[c]))
	}
	return out
}

// Last returns the changes of the group the next Undo would revert.
func (h *History) Last() []ChangeInfo {
	if h.curr == h.start {
		return nil
	}
	return h.Group(h.UndoDepth() - 1)
}
