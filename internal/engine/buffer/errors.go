package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates a position outside the buffer.
	ErrOutOfRange = errors.New("position out of range")

	// ErrRangeInvalid indicates a range whose start comes after its end.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrLineTooLong indicates an edit would make a line exceed the maximum length.
	ErrLineTooLong = errors.New("line exceeds maximum length")

	// ErrTooManyLines indicates an edit would exceed the maximum line count.
	ErrTooManyLines = errors.New("buffer exceeds maximum line count")
)

// BoundsError describes an access outside the buffer. It is the panic value
// of strict-mode accessors and matches ErrOutOfRange with errors.Is.
type BoundsError struct {
	Op    string
	Line  int
	Col   int
	Lines int
	Len   int
}

func (e *BoundsError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("buffer: %s: offset %d out of range [0,%d]", e.Op, e.Col, e.Len)
	}
	if e.Len < 0 {
		return fmt.Sprintf("buffer: %s: line %d out of range [0,%d)", e.Op, e.Line, e.Lines)
	}
	return fmt.Sprintf("buffer: %s: column %d out of range [0,%d] on line %d", e.Op, e.Col, e.Len, e.Line)
}

// Unwrap returns ErrOutOfRange.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfRange
}

func (b *Buffer) lineFault(op string, y int) {
	err := &BoundsError{Op: op, Line: y, Col: -1, Lines: len(b.lines), Len: -1}
	tracer().Errorf("%v", err)
	panic(err)
}

func (b *Buffer) colFault(op string, y, x int) {
	err := &BoundsError{Op: op, Line: y, Col: x, Lines: len(b.lines), Len: len(b.lines[y])}
	tracer().Errorf("%v", err)
	panic(err)
}

// checkLine panics unless y indexes a line.
func (b *Buffer) checkLine(op string, y int) {
	if y < 0 || y >= len(b.lines) {
		b.lineFault(op, y)
	}
}

// checkPos panics unless p is a valid position.
func (b *Buffer) checkPos(op string, p Position) {
	b.checkLine(op, p.Line)
	if p.Col < 0 || p.Col > len(b.lines[p.Line]) {
		b.colFault(op, p.Line, p.Col)
	}
}
