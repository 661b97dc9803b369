package buffer

import "github.com/dshills/textcore/internal/engine/grapheme"

// Iterator steps through the buffer one codepoint at a time. The end of
// every line but the last reads as a '\n'.
type Iterator struct {
	buf *Buffer
	pos Position
}

// Iterator returns an iterator positioned at p. It panics if p is invalid.
func (b *Buffer) Iterator(p Position) *Iterator {
	b.checkPos("Iterator", p)
	return &Iterator{buf: b, pos: p}
}

// Pos returns the current position.
func (it *Iterator) Pos() Position {
	return it.pos
}

// SetPos moves the iterator to p. It panics if p is invalid.
func (it *Iterator) SetPos(p Position) {
	it.buf.checkPos("SetPos", p)
	it.pos = p
}

// BOF reports whether the iterator is at the start of the buffer.
func (it *Iterator) BOF() bool {
	return it.pos.Line == 0 && it.pos.Col == 0
}

// EOF reports whether the iterator is at the end of the buffer.
func (it *Iterator) EOF() bool {
	last := len(it.buf.lines) - 1
	return it.pos.Line >= last && it.pos.Col >= len(it.buf.lines[last])
}

// EOL reports whether the iterator is at the end of a line.
func (it *Iterator) EOL() bool {
	return it.pos.Col == len(it.buf.lines[it.pos.Line])
}

// Peek returns the codepoint at the current position without moving. It
// returns 0 at the end of the buffer.
func (it *Iterator) Peek() rune {
	line := it.buf.lines[it.pos.Line]
	if it.pos.Col < len(line) {
		return line[it.pos.Col]
	}
	if it.pos.Line == len(it.buf.lines)-1 {
		return 0
	}
	return '\n'
}

// Next returns the codepoint at the current position and steps past it.
// At the end of the buffer it returns 0 and does not move.
func (it *Iterator) Next() rune {
	if it.EOF() {
		return 0
	}
	r := it.Peek()
	it.pos.Col++
	if it.pos.Col > len(it.buf.lines[it.pos.Line]) {
		it.pos.Line++
		it.pos.Col = 0
	}
	return r
}

// Prev steps back one codepoint and returns the codepoint now under the
// iterator. At the start of the buffer it returns 0 and does not move.
func (it *Iterator) Prev() rune {
	if it.BOF() {
		return 0
	}
	if it.pos.Col == 0 {
		it.pos.Line--
		it.pos.Col = len(it.buf.lines[it.pos.Line])
	} else {
		it.pos.Col--
	}
	return it.Peek()
}

// GraphemeIterator steps through the buffer one grapheme cluster at a time.
type GraphemeIterator struct {
	it Iterator
}

// GraphemeIterator returns a cluster iterator positioned at p. It panics if
// p is invalid.
func (b *Buffer) GraphemeIterator(p Position) *GraphemeIterator {
	b.checkPos("GraphemeIterator", p)
	return &GraphemeIterator{it: Iterator{buf: b, pos: p}}
}

// Pos returns the current position.
func (g *GraphemeIterator) Pos() Position {
	return g.it.pos
}

// BOF reports whether the iterator is at the start of the buffer.
func (g *GraphemeIterator) BOF() bool {
	return g.it.BOF()
}

// EOF reports whether the iterator is at the end of the buffer.
func (g *GraphemeIterator) EOF() bool {
	return g.it.EOF()
}

// Peek returns the cluster starting at the current position, or nil at the
// end of the buffer.
func (g *GraphemeIterator) Peek() []rune {
	it := g.it
	return scanCluster(&it)
}

// Next returns the cluster starting at the current position and steps past
// it.
func (g *GraphemeIterator) Next() []rune {
	return scanCluster(&g.it)
}

// scanCluster consumes one cluster from it.
func scanCluster(it *Iterator) []rune {
	if it.EOF() {
		return nil
	}
	var c grapheme.Clusterer
	var out []rune
	for !it.EOF() {
		r := it.Peek()
		if c.Feed(r) && len(out) > 0 {
			break
		}
		out = append(out, r)
		it.Next()
	}
	return out
}

// Prev steps back over one cluster and returns it.
//
// Cluster boundaries cannot be decided walking backward, so Prev collects
// candidate starts behind the current position until one is a boundary
// whatever precedes it: a line start, or a position that
// grapheme.DefiniteBreak accepts. It then walks forward from each
// candidate, farthest first. The first candidate whose forward walk lands
// exactly on the current position at a cluster boundary yields the start of
// the last cluster of that walk. The scan never stops inside a cluster, so
// clusters of any length come back whole.
func (g *GraphemeIterator) Prev() []rune {
	origin := g.it.pos
	if g.it.BOF() {
		return nil
	}

	back := g.it
	var cands []Position
	for {
		back.Prev()
		cands = append(cands, back.pos)
		if back.pos.Col == 0 {
			break
		}
		line := back.buf.lines[back.pos.Line]
		if grapheme.DefiniteBreak(line[back.pos.Col-1], back.Peek()) {
			break
		}
	}

	start := cands[0]
	for i := len(cands) - 1; i >= 0; i-- {
		if s, ok := g.walk(cands[i], origin); ok {
			start = s
			break
		}
	}

	g.it.pos = start
	return g.it.buf.AppendText(nil, start, origin)
}

// walk segments forward from from. It succeeds when a cluster boundary falls
// exactly on origin and returns the start of the cluster ending there.
func (g *GraphemeIterator) walk(from, origin Position) (Position, bool) {
	it := Iterator{buf: g.it.buf, pos: from}
	var c grapheme.Clusterer
	start := from
	for it.pos.Before(origin) {
		p := it.pos
		if c.Feed(it.Next()) {
			start = p
		}
	}
	if it.pos != origin {
		return Position{}, false
	}
	if !it.EOF() && !c.Feed(it.Peek()) {
		return Position{}, false
	}
	return start, true
}
