package buffer

import "fmt"

// Position is a location in the buffer: a line index and a codepoint column
// within that line. Positions order lexicographically.
type Position struct {
	Line int // 0-indexed line
	Col  int // 0-indexed codepoint column
}

// NullPosition denotes the absence of a position.
var NullPosition = Position{Line: -1, Col: -1}

// Pos is shorthand for Position{Line: line, Col: col}.
func Pos(line, col int) Position {
	return Position{Line: line, Col: col}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	if p.IsNull() {
		return "(null)"
	}
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// IsNull reports whether p is the null position.
func (p Position) IsNull() bool {
	return p.Line < 0 || p.Col < 0
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Col < other.Col {
		return -1
	}
	if p.Col > other.Col {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Min returns the earlier of two positions.
func Min(a, b Position) Position {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of two positions.
func Max(a, b Position) Position {
	if b.After(a) {
		return b
	}
	return a
}

// Advance returns the position reached by inserting runs at p: each newline
// moves to the start of the next line, other codepoints advance the column.
func Advance(p Position, runs []rune) Position {
	for _, r := range runs {
		if r == '\n' {
			p.Line++
			p.Col = 0
		} else {
			p.Col++
		}
	}
	return p
}
