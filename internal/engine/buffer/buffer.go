package buffer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/textcore/internal/engine/codec"
	"github.com/dshills/textcore/internal/engine/pool"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer holds the lines of a text and their cached byte counts.
type Buffer struct {
	lines      [][]rune
	byteCounts []int

	lineEnding    LineEnding
	tabSize       int
	maxLineLength int
	maxLines      int
	normalize     bool
	stripBOM      bool
	width         runewidth.Condition

	index LineIndex
	runes *pool.RunePool
}

// New creates a buffer holding a single empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lineEnding:    LineEndingLF,
		tabSize:       DefaultTabSize,
		maxLineLength: DefaultMaxLineLength,
		maxLines:      DefaultMaxLines,
		normalize:     true,
		stripBOM:      true,
		width:         runewidth.Condition{StrictEmojiNeutral: true},
		runes:         pool.DefaultRunes,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.lines = [][]rune{b.runes.Get(0)}
	b.byteCounts = []int{1}
	if b.index != nil {
		b.index.Reset(b.byteCounts)
	}
	return b
}

// NewFromString creates a buffer and loads s into it.
func NewFromString(s string, opts ...Option) (*Buffer, error) {
	b := New(opts...)
	if err := b.Load(strings.NewReader(s)); err != nil {
		return nil, err
	}
	return b, nil
}

// lineBytes returns the byte count of a line: its UTF-8 size plus one unit
// for the newline or end of file.
func lineBytes(rs []rune) int {
	return codec.RunesSize(rs) + 1
}

// LineEnding returns the line ending used by WriteTo.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// TabSize returns the tab stop interval.
func (b *Buffer) TabSize() int {
	return b.tabSize
}

// LineCount returns the number of lines. It is never less than one.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the codepoints of line y. The slice aliases buffer memory and
// must not be modified or retained across edits.
func (b *Buffer) Line(y int) []rune {
	b.checkLine("Line", y)
	return b.lines[y]
}

// LineLen returns the number of codepoints in line y.
func (b *Buffer) LineLen(y int) int {
	b.checkLine("LineLen", y)
	return len(b.lines[y])
}

// ByteCount returns the cached byte count of line y, including its newline
// or end-of-file unit.
func (b *Buffer) ByteCount(y int) int {
	b.checkLine("ByteCount", y)
	return b.byteCounts[y]
}

// Len returns the size of the text in bytes when written with '\n' line
// endings.
func (b *Buffer) Len() int {
	n := 0
	for _, c := range b.byteCounts {
		n += c
	}
	return n - 1
}

// End returns the position after the last codepoint.
func (b *Buffer) End() Position {
	y := len(b.lines) - 1
	return Position{Line: y, Col: len(b.lines[y])}
}

// Valid reports whether p addresses a position in the buffer.
func (b *Buffer) Valid(p Position) bool {
	return p.Line >= 0 && p.Line < len(b.lines) && p.Col >= 0 && p.Col <= len(b.lines[p.Line])
}

func (b *Buffer) setCount(y, count int) {
	b.byteCounts[y] = count
	if b.index != nil {
		b.index.SetLine(y, count)
	}
}

// SetLine replaces the contents of line y with a copy of rs.
func (b *Buffer) SetLine(y int, rs []rune) {
	b.checkLine("SetLine", y)
	line := b.runes.Grow(b.lines[y][:0], len(rs))
	b.lines[y] = append(line, rs...)
	b.setCount(y, lineBytes(rs))
}

// InsertLine inserts a copy of rs as a new line before line y. y may equal
// LineCount to append.
func (b *Buffer) InsertLine(y int, rs []rune) {
	if y < 0 || y > len(b.lines) {
		b.lineFault("InsertLine", y)
	}
	line := b.runes.Clone(rs)
	count := lineBytes(rs)

	b.lines = append(b.lines, nil)
	copy(b.lines[y+1:], b.lines[y:])
	b.lines[y] = line

	b.byteCounts = append(b.byteCounts, 0)
	copy(b.byteCounts[y+1:], b.byteCounts[y:])
	b.byteCounts[y] = count

	if b.index != nil {
		b.index.InsertLines(y, []int{count})
	}
}

// AppendLine appends a copy of rs as the last line.
func (b *Buffer) AppendLine(rs []rune) {
	b.InsertLine(len(b.lines), rs)
}

// DeleteLines removes lines [y1, y2). Their storage returns to the pool.
// Callers must leave at least one line in place once an edit completes.
func (b *Buffer) DeleteLines(y1, y2 int) {
	if y2 > len(b.lines) {
		y2 = len(b.lines)
	}
	if y1 < 0 || y1 > y2 {
		b.lineFault("DeleteLines", y1)
	}
	if y1 == y2 {
		return
	}

	for y := y1; y < y2; y++ {
		b.runes.Put(b.lines[y])
	}
	n := copy(b.lines[y1:], b.lines[y2:])
	for i := y1 + n; i < len(b.lines); i++ {
		b.lines[i] = nil
	}
	b.lines = b.lines[:y1+n]

	copy(b.byteCounts[y1:], b.byteCounts[y2:])
	b.byteCounts = b.byteCounts[:y1+n]

	if b.index != nil {
		b.index.DeleteLines(y1, y2-y1)
	}
}

// CheckInvariants verifies the line store: at least one line, one byte count
// per line, and every byte count matching its line's content.
func (b *Buffer) CheckInvariants() error {
	if len(b.lines) == 0 {
		return fmt.Errorf("buffer has no lines")
	}
	if len(b.lines) != len(b.byteCounts) {
		return fmt.Errorf("%d lines but %d byte counts", len(b.lines), len(b.byteCounts))
	}
	for y, line := range b.lines {
		if want := lineBytes(line); b.byteCounts[y] != want {
			return fmt.Errorf("line %d: byte count %d, want %d", y, b.byteCounts[y], want)
		}
		if len(line) > b.maxLineLength {
			return fmt.Errorf("line %d: length %d exceeds %d", y, len(line), b.maxLineLength)
		}
	}
	return nil
}

// Text returns the codepoints in [start, end) with '\n' between lines.
// Both positions must be valid.
func (b *Buffer) Text(start, end Position) []rune {
	b.checkPos("Text", start)
	b.checkPos("Text", end)
	if end.Before(start) {
		start, end = end, start
	}
	return b.AppendText(nil, start, end)
}

// AppendText appends the codepoints in [start, end) to dst.
func (b *Buffer) AppendText(dst []rune, start, end Position) []rune {
	if start.Line == end.Line {
		return append(dst, b.lines[start.Line][start.Col:end.Col]...)
	}
	dst = append(dst, b.lines[start.Line][start.Col:]...)
	for y := start.Line + 1; y < end.Line; y++ {
		dst = append(dst, '\n')
		dst = append(dst, b.lines[y]...)
	}
	dst = append(dst, '\n')
	return append(dst, b.lines[end.Line][:end.Col]...)
}

// Runes returns the whole text.
func (b *Buffer) Runes() []rune {
	return b.AppendText(nil, Position{}, b.End())
}

// String returns the whole text with '\n' line endings.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for y, line := range b.lines {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, r := range line {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Load replaces the contents of the buffer with the text read from r.
//
// Bytes are decoded by a streaming codec.Decoder, so malformed input never
// fails the load. With line ending normalization enabled, CRLF and lone CR
// both break lines and the dominant style is recorded for WriteTo. On error
// the buffer is left unchanged.
func (b *Buffer) Load(r io.Reader) error {
	if b.stripBOM {
		r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	br := bufio.NewReader(r)

	lines := [][]rune{b.runes.Get(0)}
	var (
		dec          codec.Decoder
		lf, crlf, cr int
		pendingCR    bool
	)

	discard := func() {
		for _, line := range lines {
			b.runes.Put(line)
		}
	}
	newline := func() error {
		if len(lines) >= b.maxLines {
			return ErrTooManyLines
		}
		lines = append(lines, b.runes.Get(0))
		return nil
	}
	push := func(r rune) error {
		last := len(lines) - 1
		if len(lines[last]) >= b.maxLineLength {
			return ErrLineTooLong
		}
		lines[last] = append(b.runes.Grow(lines[last], 1), r)
		return nil
	}

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			discard()
			return fmt.Errorf("load: %w", err)
		}
		ch, ok := dec.Feed(c)
		if !ok {
			continue
		}

		if pendingCR {
			pendingCR = false
			if ch == '\n' {
				crlf++
				if err := newline(); err != nil {
					discard()
					return fmt.Errorf("load: %w", err)
				}
				continue
			}
			cr++
			if err := newline(); err != nil {
				discard()
				return fmt.Errorf("load: %w", err)
			}
		}

		switch {
		case ch == '\n':
			lf++
			err = newline()
		case ch == '\r' && b.normalize:
			pendingCR = true
		default:
			err = push(ch)
		}
		if err != nil {
			discard()
			return fmt.Errorf("load: %w", err)
		}
	}
	if pendingCR {
		cr++
		if err := newline(); err != nil {
			discard()
			return fmt.Errorf("load: %w", err)
		}
	}

	for _, line := range b.lines {
		b.runes.Put(line)
	}
	b.lines = lines
	b.byteCounts = make([]int, len(lines))
	for y, line := range lines {
		b.byteCounts[y] = lineBytes(line)
	}
	if b.normalize {
		b.lineEnding = lineEndingFromCounts(lf, crlf, cr)
	} else {
		b.lineEnding = LineEndingLF
	}
	if b.index != nil {
		b.index.Reset(b.byteCounts)
	}

	tracer().Debugf("buffer: loaded %d lines, %d bytes, line ending %s", len(b.lines), b.Len(), b.lineEnding)
	return nil
}

// WriteTo writes the text to w using the buffer's line ending.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	sep := b.lineEnding.Sequence()
	var n int64
	var enc []byte

	for y, line := range b.lines {
		if y > 0 {
			m, err := bw.WriteString(sep)
			n += int64(m)
			if err != nil {
				return n, err
			}
		}
		enc = codec.EncodeRunes(enc[:0], line)
		m, err := bw.Write(enc)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// ReadAt returns the UTF-8 bytes from byte column col of line row to the end
// of that line, including the line's newline. It returns nil past the end of
// the text. It serves incremental parsers that pull content on demand.
func (b *Buffer) ReadAt(row, col int) []byte {
	if row < 0 || row >= len(b.lines) {
		return nil
	}
	x := b.ColumnFromByte(row, col, Lenient)
	out := codec.EncodeRunes(nil, b.lines[row][x:])
	if row < len(b.lines)-1 {
		out = append(out, '\n')
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
