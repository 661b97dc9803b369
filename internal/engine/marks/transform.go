package marks

import "github.com/dshills/textcore/internal/engine/buffer"

// Gravity decides where a mark sitting exactly at an insertion point ends up.
type Gravity uint8

const (
	// Right moves the mark to the end of inserted text.
	Right Gravity = iota
	// Left keeps the mark before inserted text.
	Left
)

// String returns "right" or "left".
func (g Gravity) String() string {
	if g == Left {
		return "left"
	}
	return "right"
}

// Transform returns the position of p after [oldStart, oldEnd) was replaced
// by text ending at newEnd.
func Transform(p, oldStart, oldEnd, newEnd buffer.Position, g Gravity) buffer.Position {
	// Edit starts after p: no change needed
	if p.Before(oldStart) {
		return p
	}

	// Insertion exactly at p
	if p == oldStart && oldStart == oldEnd {
		if g == Left {
			return p
		}
		return newEnd
	}

	// Edit starts at p and removes text after it
	if p == oldStart {
		return p
	}

	// Edit spans p: move to end of new text
	if p.Before(oldEnd) {
		return newEnd
	}

	// Edit is entirely before p: shift
	return Shift(p, oldEnd, newEnd)
}

// Shift moves p, which is at or after oldEnd, by the displacement of oldEnd
// to newEnd. Only the column of a mark on oldEnd's line changes with the
// column of the edit end.
func Shift(p, oldEnd, newEnd buffer.Position) buffer.Position {
	if p.Line == oldEnd.Line {
		return buffer.Position{Line: newEnd.Line, Col: newEnd.Col + p.Col - oldEnd.Col}
	}
	return buffer.Position{Line: p.Line + newEnd.Line - oldEnd.Line, Col: p.Col}
}
