// Package history records edits and replays them for undo and redo.
//
// # Changes
//
// A Change describes one edit: the start position, the end of the replaced
// span before the edit (OldEnd) and the end of the inserted text after it
// (NewEnd), together with the removed and inserted codepoints. The text lives
// in chains of fixed-capacity pool.Arena chunks, so no record grows without
// bound. Changes are held in an indexed slab and linked into groups by index.
//
// # Ring
//
// Groups sit in a fixed-capacity ring addressed by three indices:
//
//	start  oldest retained group
//	curr   next group to redo; curr-1 is the next group to undo
//	top    one past the newest group
//
// start <= curr <= top holds in ring order and start == top means the ring is
// empty, so a ring of n slots retains at most n-1 groups. Recording a new
// group discards [curr, top), the abandoned redo branch, and evicts the oldest
// group when the ring is full.
//
// # Coalescing
//
// An edit extends the latest change instead of starting a new group when it
// starts or ends exactly at that change's NewEnd and no boundary was forced
// since. Boundary forces the next edit into a new group; undo and redo force
// one too. Between BeginBatch and EndBatch every edit joins one group.
//
// Removed text is captured by walking backward from the end of the removed
// span, so chunks fill in reverse. The chain is then reversed in place,
// chunk order and chunk contents, to read forward.
//
// # Replay
//
// Undo and Redo drive an Applier, normally the edit engine with recording
// switched off. Each change is applied as one replacement of [Start, NewEnd)
// by the old text, or of [Start, OldEnd) by the new text, so the buffer
// limits only see the restored lines. Undo walks the current group in reverse
// and returns the group's first start position. Redo walks forward and
// returns the last change's NewEnd.
package history

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textcore.engine'
func tracer() tracing.Trace {
	return tracing.Select("textcore.engine")
}
