package buffer

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/codec"
)

// Insert inserts runs at p and returns the position just after the inserted
// text. A run without newlines shifts the tail of the line in place. A run
// with newlines rebuilds the affected line through scratch storage and
// splits it into new lines.
//
// The edit is rejected before any mutation when p is outside the buffer or
// the result would exceed the line length or line count limits.
func (b *Buffer) Insert(p Position, runs []rune) (Position, error) {
	if !b.Valid(p) {
		return NullPosition, fmt.Errorf("insert at %s: %w", p, ErrOutOfRange)
	}
	if len(runs) == 0 {
		return p, nil
	}

	newlines, first, last := scanRuns(runs)
	line := b.lines[p.Line]

	if newlines == 0 {
		if len(line)+len(runs) > b.maxLineLength {
			tracer().Infof("buffer: insert at %s rejected, line too long", p)
			return NullPosition, fmt.Errorf("insert at %s: %w", p, ErrLineTooLong)
		}
		n := len(line)
		line = b.runes.Grow(line, len(runs))
		line = line[:n+len(runs)]
		copy(line[p.Col+len(runs):], line[p.Col:n])
		copy(line[p.Col:], runs)
		b.lines[p.Line] = line
		b.setCount(p.Line, b.byteCounts[p.Line]+codec.RunesSize(runs))
		return Position{Line: p.Line, Col: p.Col + len(runs)}, nil
	}

	if len(b.lines)+newlines > b.maxLines {
		tracer().Infof("buffer: insert at %s rejected, too many lines", p)
		return NullPosition, fmt.Errorf("insert at %s: %w", p, ErrTooManyLines)
	}
	if p.Col+first > b.maxLineLength || last+len(line)-p.Col > b.maxLineLength || longestInner(runs) > b.maxLineLength {
		tracer().Infof("buffer: insert at %s rejected, line too long", p)
		return NullPosition, fmt.Errorf("insert at %s: %w", p, ErrLineTooLong)
	}

	b.rebuild(p.Line, p.Line+1, line[:p.Col], runs, line[p.Col:])
	return Position{Line: p.Line + newlines, Col: last}, nil
}

// rebuild replaces lines [y1, y2) by head+runs+tail, split at newlines.
// The pieces are copied into scratch storage first, so they may alias the
// lines being replaced.
func (b *Buffer) rebuild(y1, y2 int, head, runs, tail []rune) {
	total := len(head) + len(runs) + len(tail)
	scratch := b.runes.Get(total)
	scratch = append(scratch, head...)
	scratch = append(scratch, runs...)
	scratch = append(scratch, tail...)

	b.DeleteLines(y1, y2)

	y, start := y1, 0
	for i := 0; i <= total; i++ {
		if i == total || scratch[i] == '\n' {
			b.InsertLine(y, scratch[start:i])
			y++
			start = i + 1
		}
	}
	b.runes.Put(scratch)
}

// Replace replaces the text in [start, end) by runs and returns the end of
// the new text. The limits apply to the resulting lines only: a replacement
// is accepted even when removing [start, end) alone would join two lines
// into one that is too long. Nothing is mutated when the edit is rejected.
func (b *Buffer) Replace(start, end Position, runs []rune) (Position, error) {
	if !b.Valid(start) || !b.Valid(end) {
		return NullPosition, fmt.Errorf("replace %s-%s: %w", start, end, ErrOutOfRange)
	}
	if end.Before(start) {
		return NullPosition, fmt.Errorf("replace %s-%s: %w", start, end, ErrRangeInvalid)
	}
	if start == end {
		return b.Insert(start, runs)
	}
	if len(runs) == 0 {
		if err := b.Remove(start, end); err != nil {
			return NullPosition, err
		}
		return start, nil
	}

	newlines, first, last := scanRuns(runs)
	head := b.lines[start.Line][:start.Col]
	tail := b.lines[end.Line][end.Col:]

	if len(b.lines)-(end.Line-start.Line)+newlines > b.maxLines {
		tracer().Infof("buffer: replace %s-%s rejected, too many lines", start, end)
		return NullPosition, fmt.Errorf("replace %s-%s: %w", start, end, ErrTooManyLines)
	}
	tooLong := len(head)+len(runs)+len(tail) > b.maxLineLength
	if newlines > 0 {
		tooLong = len(head)+first > b.maxLineLength || last+len(tail) > b.maxLineLength ||
			longestInner(runs) > b.maxLineLength
	}
	if tooLong {
		tracer().Infof("buffer: replace %s-%s rejected, line too long", start, end)
		return NullPosition, fmt.Errorf("replace %s-%s: %w", start, end, ErrLineTooLong)
	}

	if newlines == 0 && start.Line == end.Line {
		y := start.Line
		line := b.lines[y]
		count := b.byteCounts[y] - codec.RunesSize(line[start.Col:end.Col]) + codec.RunesSize(runs)
		n, delta := len(line), len(runs)-(end.Col-start.Col)
		if delta > 0 {
			line = b.runes.Grow(line, delta)[:n+delta]
		}
		copy(line[start.Col+len(runs):], line[end.Col:n])
		copy(line[start.Col:], runs)
		b.lines[y] = line[:n+delta]
		b.setCount(y, count)
		return Position{Line: y, Col: start.Col + len(runs)}, nil
	}

	b.rebuild(start.Line, end.Line+1, head, runs, tail)
	if newlines == 0 {
		return Position{Line: start.Line, Col: start.Col + len(runs)}, nil
	}
	return Position{Line: start.Line + newlines, Col: last}, nil
}

// scanRuns counts the newlines in runs and returns the lengths of the first
// and last segments.
func scanRuns(runs []rune) (newlines, first, last int) {
	first = -1
	seg := 0
	for _, r := range runs {
		if r == '\n' {
			if first < 0 {
				first = seg
			}
			newlines++
			seg = 0
			continue
		}
		seg++
	}
	if first < 0 {
		first = seg
	}
	return newlines, first, seg
}

// longestInner returns the length of the longest segment strictly between
// two newlines.
func longestInner(runs []rune) int {
	longest, seg, seen := 0, 0, false
	for _, r := range runs {
		if r != '\n' {
			seg++
			continue
		}
		if seen && seg > longest {
			longest = seg
		}
		seen = true
		seg = 0
	}
	return longest
}

// Remove deletes the text in [start, end). Within a line the tail shifts
// left in place. Across lines the head of the start line is joined with the
// tail of the end line and the lines in between are deleted.
func (b *Buffer) Remove(start, end Position) error {
	if !b.Valid(start) || !b.Valid(end) {
		return fmt.Errorf("remove %s-%s: %w", start, end, ErrOutOfRange)
	}
	if end.Before(start) {
		return fmt.Errorf("remove %s-%s: %w", start, end, ErrRangeInvalid)
	}
	if start == end {
		return nil
	}

	y := start.Line
	line := b.lines[y]

	if start.Line == end.Line {
		removed := codec.RunesSize(line[start.Col:end.Col])
		n := copy(line[start.Col:], line[end.Col:])
		b.lines[y] = line[:start.Col+n]
		b.setCount(y, b.byteCounts[y]-removed)
		return nil
	}

	tail := b.lines[end.Line][end.Col:]
	if start.Col+len(tail) > b.maxLineLength {
		tracer().Infof("buffer: remove %s-%s rejected, line too long", start, end)
		return fmt.Errorf("remove %s-%s: %w", start, end, ErrLineTooLong)
	}

	line = b.runes.Grow(line[:start.Col], len(tail))
	line = append(line, tail...)
	b.lines[y] = line
	b.DeleteLines(y+1, end.Line+1)
	b.setCount(y, lineBytes(line))
	return nil
}
