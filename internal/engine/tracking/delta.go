package tracking

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Point is a row and a byte column within that row, the coordinates
// incremental parsers work in.
type Point struct {
	Row    int
	Column int
}

// String returns the point as "row:column".
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// InputEdit describes one edit to a parser: the replaced byte range
// [StartByte, OldEndByte) now spans [StartByte, NewEndByte).
type InputEdit struct {
	StartByte   int
	OldEndByte  int
	NewEndByte  int
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// String returns a compact description of the edit.
func (e InputEdit) String() string {
	return fmt.Sprintf("[%d,%d)->[%d,%d) %s-%s->%s",
		e.StartByte, e.OldEndByte, e.StartByte, e.NewEndByte,
		e.StartPoint, e.OldEndPoint, e.NewEndPoint)
}

// ChangeType categorizes a replayed sub-edit.
type ChangeType uint8

const (
	// ChangeInsert indicates text was inserted (OldEnd == Start).
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates text was deleted (NewEnd == Start).
	ChangeDelete
)

// String returns a human-readable representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// SubEdit is one fine-grained edit replayed into a mark tracker.
type SubEdit struct {
	Type   ChangeType
	Start  buffer.Position
	OldEnd buffer.Position
	NewEnd buffer.Position
}

// String returns a human-readable representation of the sub-edit.
func (s SubEdit) String() string {
	return fmt.Sprintf("%s %s-%s->%s", s.Type, s.Start, s.OldEnd, s.NewEnd)
}

// Replay turns an edit script whose first op starts at start into
// sub-edits, each expressed in the coordinates left by the ones before it.
// Same runs only advance the position.
func Replay(start buffer.Position, ops []DiffOp) []SubEdit {
	var out []SubEdit
	pos := start
	for _, op := range ops {
		switch op.Type {
		case DiffSame:
			pos = buffer.Advance(pos, op.Runs)
		case DiffDelete:
			out = append(out, SubEdit{
				Type:   ChangeDelete,
				Start:  pos,
				OldEnd: buffer.Advance(pos, op.Runs),
				NewEnd: pos,
			})
		case DiffInsert:
			end := buffer.Advance(pos, op.Runs)
			out = append(out, SubEdit{
				Type:   ChangeInsert,
				Start:  pos,
				OldEnd: pos,
				NewEnd: end,
			})
			pos = end
		}
	}
	return out
}
