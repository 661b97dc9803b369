package history

import (
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/pool"
)

// Source gives read access to the text being edited.
type Source interface {
	Iterator(p buffer.Position) *buffer.Iterator
}

// Text is a captured run of codepoints held in the history's arena. It is
// owned by the caller until passed to RecordRemove, RecordReplace or Release.
type Text struct {
	h pool.Handle
	n int
}

// Len returns the number of captured codepoints.
func (t Text) Len() int {
	return t.n
}

// Capture copies the text in [start, end) out of src. The span is walked
// backward from end, filling each chunk before chaining the next, and the
// chain is then reversed to read forward. Call it before removing the span.
func (h *History) Capture(src Source, start, end buffer.Position) Text {
	if !start.Before(end) {
		return Text{}
	}
	size := pool.MaxChunk
	if start.Line == end.Line {
		size = end.Col - start.Col
	}
	it := src.Iterator(end)
	head := h.arena.Alloc(size)
	tail := head
	n := 0
	for it.Pos().After(start) {
		r := it.Prev()
		if !h.arena.Push(tail, r) {
			next := h.arena.Alloc(pool.MaxChunk)
			h.arena.SetNext(tail, next)
			tail = next
			h.arena.Push(tail, r)
		}
		n++
	}
	return Text{h: h.arena.Reverse(head), n: n}
}

// Release frees a captured text that will not be recorded.
func (h *History) Release(t Text) {
	h.arena.FreeChain(t.h)
}

// AppendRunes appends the captured text to dst.
func (h *History) AppendRunes(dst []rune, t Text) []rune {
	return h.arena.Linearize(dst, t.h)
}

// String returns the captured text.
func (h *History) String(t Text) string {
	return string(h.arena.Linearize(nil, t.h))
}

// joinable returns the slot of the newest group when the next edit may
// extend it.
func (h *History) joinable() (int, bool) {
	if h.boundary || h.curr == h.start || h.curr != h.top {
		return 0, false
	}
	return h.wrap(h.curr - 1), true
}

// target returns the slot a change that could not coalesce goes to: the
// open group inside a batch, a fresh group otherwise.
func (h *History) target() int {
	if slot, ok := h.joinable(); ok && h.batch > 0 {
		return slot
	}
	return h.push()
}

// RecordInsert records runs inserted at start. Typing at the end of the
// previous change extends it.
func (h *History) RecordInsert(start buffer.Position, runs []rune) {
	if len(runs) == 0 {
		return
	}
	if slot, ok := h.joinable(); ok {
		c := &h.changes[h.slots[slot].tail]
		if start == c.NewEnd {
			c.newText = h.arena.AppendRun(c.newText, runs)
			c.NewEnd = buffer.Advance(c.NewEnd, runs)
			return
		}
	}
	h.appendChange(h.target(), Change{
		Start:   start,
		OldEnd:  start,
		NewEnd:  buffer.Advance(start, runs),
		newText: h.arena.AppendRun(pool.Nil, runs),
	})
}

// RecordRemove records the removal of [start, end), whose text was captured
// beforehand. Ownership of old passes to the history. A forward delete at
// the end of the previous change, or a backspace ending there, extends it.
func (h *History) RecordRemove(start, end buffer.Position, old Text) {
	if old.n == 0 {
		h.Release(old)
		return
	}
	if slot, ok := h.joinable(); ok && h.coalesceRemove(slot, start, end, old) {
		return
	}
	h.appendChange(h.target(), Change{
		Start:   start,
		OldEnd:  end,
		NewEnd:  start,
		oldText: old.h,
	})
}

func (h *History) coalesceRemove(slot int, start, end buffer.Position, old Text) bool {
	idx := h.slots[slot].tail
	c := &h.changes[idx]
	switch {
	case start == c.NewEnd:
		// Forward delete: the removed text followed the change.
		h.scratch = h.arena.Linearize(h.scratch[:0], old.h)
		c.oldText = h.arena.AppendRun(c.oldText, h.scratch)
		c.OldEnd = buffer.Advance(c.OldEnd, h.scratch)
		h.Release(old)
		return true
	case end == c.NewEnd && c.newText != pool.Nil && !start.Before(c.Start):
		// Backspace over text the change inserted.
		c.newText = h.arena.TrimEnd(c.newText, old.n)
		c.NewEnd = start
		h.Release(old)
		if c.newText == pool.Nil && c.oldText == pool.Nil {
			h.dropTail(slot)
		}
		return true
	case end == c.NewEnd && c.newText == pool.Nil:
		// Backspace extending a pure deletion.
		h.scratch = h.arena.Linearize(h.scratch[:0], old.h)
		c.oldText = h.arena.PrependRun(c.oldText, h.scratch)
		c.Start, c.NewEnd = start, start
		h.Release(old)
		return true
	}
	return false
}

// dropTail unlinks the last change of slot, popping the group once empty.
func (h *History) dropTail(slot int) {
	g := &h.slots[slot]
	idx := g.tail
	prev := h.changes[idx].prev
	if prev == noChange {
		h.pop()
		return
	}
	h.changes[prev].next = noChange
	g.tail = prev
	h.freeChange(idx)
}

// RecordReplace records the replacement of [start, oldEnd), captured as
// old, by runs. A replacement never extends an earlier change.
func (h *History) RecordReplace(start, oldEnd buffer.Position, old Text, runs []rune) {
	if old.n == 0 {
		h.Release(old)
		h.RecordInsert(start, runs)
		return
	}
	if len(runs) == 0 {
		h.RecordRemove(start, oldEnd, old)
		return
	}
	h.appendChange(h.target(), Change{
		Start:   start,
		OldEnd:  oldEnd,
		NewEnd:  buffer.Advance(start, runs),
		oldText: old.h,
		newText: h.arena.AppendRun(pool.Nil, runs),
	})
}

// BeginBatch collects every following edit into one group until the
// matching EndBatch. Calls nest.
func (h *History) BeginBatch() {
	if h.batch == 0 {
		h.boundary = true
	}
	h.batch++
}

// EndBatch closes a batch opened by BeginBatch.
func (h *History) EndBatch() {
	if h.batch == 0 {
		return
	}
	h.batch--
	if h.batch == 0 {
		h.boundary = true
	}
}

// InBatch reports whether a batch is open.
func (h *History) InBatch() bool {
	return h.batch > 0
}
