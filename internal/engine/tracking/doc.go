// Package tracking keeps the collaborators of the edit engine in step with
// the text.
//
// Every mutation is bracketed by a Notifier:
//
//	n.Start(start, oldEnd)   // record the old range, snapshot the old text
//	... mutate ...
//	n.Finish(newEnd)         // describe the edit, replay it into marks
//
// Finish hands the parser collaborator one InputEdit, in byte offsets and
// row/byte-column points, and calls it synchronously. When a mark tracker is
// attached, Finish diffs the old text against the new text and replays the
// diff as insert and delete sub-edits, advancing over unchanged runs. A wide
// edit that changes few codepoints, such as reformatting a line, moves only
// the marks next to the changed codepoints.
//
// # Diffing
//
// Diff is a Myers diff over codepoints. A common prefix and suffix are
// trimmed first; a middle whose edit distance exceeds the configured bound
// is reported as one deletion followed by one insertion.
package tracking

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textcore.engine'
func tracer() tracing.Trace {
	return tracing.Select("textcore.engine")
}
