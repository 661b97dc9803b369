package engine

import "github.com/dshills/textcore/internal/engine/buffer"

// Read access delegates to the buffer. None of these methods mutate, and
// none of them may be called while a mutation is running on another
// goroutine.

// LineCount returns the number of lines. It is never less than one.
func (e *Engine) LineCount() int { return e.buf.LineCount() }

// Line returns the codepoints of line y. The slice aliases engine memory
// and must not be modified or retained across edits.
func (e *Engine) Line(y int) []rune { return e.buf.Line(y) }

// LineLen returns the number of codepoints in line y.
func (e *Engine) LineLen(y int) int { return e.buf.LineLen(y) }

// Len returns the size of the text in bytes with '\n' line endings.
func (e *Engine) Len() int { return e.buf.Len() }

// End returns the position after the last codepoint.
func (e *Engine) End() Position { return e.buf.End() }

// Valid reports whether p addresses a position in the text.
func (e *Engine) Valid(p Position) bool { return e.buf.Valid(p) }

// LineEnding returns the line ending used by WriteTo.
func (e *Engine) LineEnding() LineEnding { return e.buf.LineEnding() }

// TabSize returns the tab stop interval.
func (e *Engine) TabSize() int { return e.buf.TabSize() }

// Text returns a copy of the text in [start, end).
func (e *Engine) Text(start, end Position) []rune { return e.buf.Text(start, end) }

// TextString returns the text in [start, end) as a string.
func (e *Engine) TextString(start, end Position) string {
	return string(e.buf.Text(start, end))
}

// AppendText appends the text in [start, end) to dst.
func (e *Engine) AppendText(dst []rune, start, end Position) []rune {
	return e.buf.AppendText(dst, start, end)
}

// String returns the whole text with '\n' line endings.
func (e *Engine) String() string { return e.buf.String() }

// ReadAt returns the bytes of row from byte column col through the end of
// the row, or nil past the end of the text. Parsers pull content with it.
func (e *Engine) ReadAt(row, col int) []byte { return e.buf.ReadAt(row, col) }

// Iterator returns a codepoint iterator at p.
func (e *Engine) Iterator(p Position) *buffer.Iterator { return e.buf.Iterator(p) }

// GraphemeIterator returns a grapheme cluster iterator at p.
func (e *Engine) GraphemeIterator(p Position) *buffer.GraphemeIterator {
	return e.buf.GraphemeIterator(p)
}

// ============================================================================
// Coordinate conversion
// ============================================================================

// ByteOffset converts codepoint column x of line y to a byte offset in the line.
func (e *Engine) ByteOffset(y, x int, mode Mode) int { return e.buf.ByteOffset(y, x, mode) }

// ColumnFromByte converts a byte offset in line y to a codepoint column.
func (e *Engine) ColumnFromByte(y, off int, mode Mode) int {
	return e.buf.ColumnFromByte(y, off, mode)
}

// GraphemeIndex converts codepoint column x of line y to a cluster index.
func (e *Engine) GraphemeIndex(y, x int, mode Mode) int { return e.buf.GraphemeIndex(y, x, mode) }

// ColumnFromGrapheme converts cluster index g of line y to a codepoint column.
func (e *Engine) ColumnFromGrapheme(y, g int, mode Mode) int {
	return e.buf.ColumnFromGrapheme(y, g, mode)
}

// VisualColumn converts codepoint column x of line y to a display column.
func (e *Engine) VisualColumn(y, x int, mode Mode) int { return e.buf.VisualColumn(y, x, mode) }

// ColumnFromVisual converts display column vx of line y to a codepoint column.
func (e *Engine) ColumnFromVisual(y, vx int, mode Mode) int {
	return e.buf.ColumnFromVisual(y, vx, mode)
}

// Offset converts p to a byte offset in the whole text.
func (e *Engine) Offset(p Position, mode Mode) int { return e.buf.Offset(p, mode) }

// PositionFromOffset converts a byte offset in the whole text to a position.
func (e *Engine) PositionFromOffset(off int, mode Mode) Position {
	return e.buf.PositionFromOffset(off, mode)
}
