package buffer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/textcore/internal/engine/codec"
	"github.com/dshills/textcore/internal/engine/grapheme"
)

// Mode selects how conversions treat out-of-range input.
type Mode uint8

const (
	// Strict panics with a *BoundsError on out-of-range input.
	Strict Mode = iota
	// Lenient clamps out-of-range input to the nearest valid value.
	Lenient
)

func (b *Buffer) line(op string, y int, mode Mode) int {
	if y >= 0 && y < len(b.lines) {
		return y
	}
	if mode == Strict {
		b.lineFault(op, y)
	}
	if y < 0 {
		return 0
	}
	return len(b.lines) - 1
}

func (b *Buffer) col(op string, y, x, limit int, mode Mode) int {
	if x >= 0 && x <= limit {
		return x
	}
	if mode == Strict {
		b.colFault(op, y, x)
	}
	if x < 0 {
		return 0
	}
	return limit
}

// ByteOffset returns the byte offset within line y of codepoint column x.
func (b *Buffer) ByteOffset(y, x int, mode Mode) int {
	y = b.line("ByteOffset", y, mode)
	line := b.lines[y]
	x = b.col("ByteOffset", y, x, len(line), mode)
	return codec.RunesSize(line[:x])
}

// ColumnFromByte returns the codepoint column holding byte offset off of
// line y. An offset inside a multi-byte codepoint maps to that codepoint.
func (b *Buffer) ColumnFromByte(y, off int, mode Mode) int {
	y = b.line("ColumnFromByte", y, mode)
	line := b.lines[y]
	off = b.col("ColumnFromByte", y, off, b.byteCounts[y]-1, mode)
	for x, r := range line {
		s := codec.Size(r)
		if off < s {
			return x
		}
		off -= s
	}
	return len(line)
}

// GraphemeIndex returns the index of the grapheme cluster holding codepoint
// column x of line y. Column LineLen(y) maps to the cluster count.
func (b *Buffer) GraphemeIndex(y, x int, mode Mode) int {
	y = b.line("GraphemeIndex", y, mode)
	line := b.lines[y]
	x = b.col("GraphemeIndex", y, x, len(line), mode)

	var c grapheme.Clusterer
	n := 0
	for i := 0; i < x; i++ {
		if c.Feed(line[i]) {
			n++
		}
	}
	if x == len(line) || c.Feed(line[x]) {
		return n
	}
	return n - 1
}

// ColumnFromGrapheme returns the codepoint column where cluster g of line y
// starts. g equal to the cluster count maps to the end of the line.
func (b *Buffer) ColumnFromGrapheme(y, g int, mode Mode) int {
	y = b.line("ColumnFromGrapheme", y, mode)
	line := b.lines[y]
	if g < 0 {
		g = b.col("ColumnFromGrapheme", y, g, 0, mode)
	}

	var c grapheme.Clusterer
	n := 0
	for x, r := range line {
		if c.Feed(r) {
			if n == g {
				return x
			}
			n++
		}
	}
	if g > n {
		b.col("ColumnFromGrapheme", y, g, n, mode)
	}
	return len(line)
}

// clusterWidth returns the display width of cl when it starts at visual
// column vx.
func (b *Buffer) clusterWidth(cl []rune, vx int) int {
	if cl[0] == '\t' {
		return b.tabSize - vx%b.tabSize
	}
	var w int
	if len(cl) == 1 {
		w = b.width.RuneWidth(cl[0])
	} else {
		w = uniseg.StringWidth(string(cl))
	}
	if w < 1 {
		w = 1
	}
	return w
}

// VisualColumn returns the display column of codepoint column x of line y.
// Tabs advance to the next tab stop and other clusters by their display
// width. A column inside a cluster maps to the cluster's start.
func (b *Buffer) VisualColumn(y, x int, mode Mode) int {
	y = b.line("VisualColumn", y, mode)
	line := b.lines[y]
	x = b.col("VisualColumn", y, x, len(line), mode)

	vx := 0
	for i := 0; i < x; {
		n := grapheme.Next(line[i:])
		if i+n > x {
			break
		}
		vx += b.clusterWidth(line[i:i+n], vx)
		i += n
	}
	return vx
}

// ColumnFromVisual returns the codepoint column of the cluster covering
// display column vx of line y. Display columns inside a wide cluster or a
// tab map to its start.
func (b *Buffer) ColumnFromVisual(y, vx int, mode Mode) int {
	y = b.line("ColumnFromVisual", y, mode)
	line := b.lines[y]
	if vx < 0 {
		vx = b.col("ColumnFromVisual", y, vx, 0, mode)
	}

	cur := 0
	for i := 0; i < len(line); {
		n := grapheme.Next(line[i:])
		w := b.clusterWidth(line[i:i+n], cur)
		if vx < cur+w {
			return i
		}
		cur += w
		i += n
	}
	if vx > cur {
		b.col("ColumnFromVisual", y, vx, cur, mode)
	}
	return len(line)
}

// offsetIndex is implemented by line indexes that answer line offsets.
type offsetIndex interface {
	Offset(y int) int
}

// lineOffset returns the global byte offset of the start of line y.
func (b *Buffer) lineOffset(y int) int {
	if idx, ok := b.index.(offsetIndex); ok {
		return idx.Offset(y)
	}
	off := 0
	for i := 0; i < y; i++ {
		off += b.byteCounts[i]
	}
	return off
}

// Offset returns the global byte offset of p: the byte counts of all
// preceding lines plus the offset within p's line.
func (b *Buffer) Offset(p Position, mode Mode) int {
	y := b.line("Offset", p.Line, mode)
	x := b.col("Offset", y, p.Col, len(b.lines[y]), mode)
	return b.lineOffset(y) + codec.RunesSize(b.lines[y][:x])
}

// PositionFromOffset returns the position of global byte offset off. An
// offset inside a multi-byte codepoint maps to that codepoint, an offset on
// a newline maps to the end of its line.
func (b *Buffer) PositionFromOffset(off int, mode Mode) Position {
	if off < 0 || off >= b.Len()+1 {
		if mode == Strict {
			err := &BoundsError{Op: "PositionFromOffset", Line: -1, Col: off, Lines: len(b.lines), Len: b.Len()}
			tracer().Errorf("%v", err)
			panic(err)
		}
		if off < 0 {
			return Position{}
		}
		return b.End()
	}

	for y, count := range b.byteCounts {
		if off < count {
			for x, r := range b.lines[y] {
				s := codec.Size(r)
				if off < s {
					return Position{Line: y, Col: x}
				}
				off -= s
			}
			return Position{Line: y, Col: len(b.lines[y])}
		}
		off -= count
	}
	return b.End()
}
