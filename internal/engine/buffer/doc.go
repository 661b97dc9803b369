// Package buffer stores the text of an open file as a list of codepoint lines
// and applies edits to it.
//
// Each line is a growable []rune that never holds its own newline. A parallel
// slice caches every line's UTF-8 byte count, including one unit for the
// newline (or, on the last line, the end of file). The two slices always have
// the same length; CheckInvariants verifies this in tests.
//
// The package provides:
//
//   - Line store operations that shift line descriptors, not contents
//   - Insert and Remove, which keep byte counts and line structure consistent
//   - Iterator and GraphemeIterator for codepoint and cluster stepping
//   - Pure coordinate conversions between bytes, codepoints, grapheme
//     clusters and visual columns
//   - Load and WriteTo for bulk replacement and serialization
//
// Basic usage:
//
//	buf := buffer.New(buffer.WithTabSize(8))
//	end, err := buf.Insert(buffer.Pos(0, 0), []rune("ab\ncd"))
//	// end == (1:2)
//	err = buf.Remove(buffer.Pos(0, 1), buffer.Pos(1, 1))
//	// buf.String() == "ad"
//
// Coordinates:
//
// A Position holds a line index and a codepoint column. Conversions take an
// explicit Mode. Strict conversions panic with a *BoundsError on input
// outside the buffer, since a desynchronized coordinate corrupts everything
// downstream of it. Lenient conversions clamp instead.
//
// Concurrency:
//
// A Buffer performs no locking. It has a single writer; readers on other
// goroutines must coordinate with that writer through a lock they own.
package buffer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textcore.engine'
func tracer() tracing.Trace {
	return tracing.Select("textcore.engine")
}
