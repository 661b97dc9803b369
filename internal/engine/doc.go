// Package engine provides the text-storage and edit engine of textcore.
//
// The engine package is the facade over the storage and history packages.
// It routes every mutation through one path: validate, open an edit
// notification, mutate the buffer, close the notification, record the
// change for undo.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - codec: streaming UTF-8 decoding and encoding
//   - grapheme: extended grapheme cluster segmentation
//   - pool: size-classed line storage and a chunk arena for history text
//   - buffer: line store, iterators, coordinate conversion, insert/remove
//   - history: ring of coalescing undo groups
//   - tracking: edit notification, sequence diff and replay
//   - marks: a reference mark tracker
//   - syntax: incremental parser collaborators
//
// # Thread Safety
//
// An Engine has a single writer. Mutating methods assert that no other
// mutation is running and panic with ErrConcurrentMutation otherwise, which
// also catches a collaborator calling back into the engine while it is
// being notified. The engine takes no locks; readers running beside the
// writer must coordinate with it externally.
//
// # Basic Usage
//
//	e, err := engine.NewFromString("hello")
//	if err != nil {
//	    return err
//	}
//
//	end, _ := e.InsertString(e.End(), ", world")
//	e.Remove(engine.Pos(0, 0), engine.Pos(0, 1))
//
//	e.Undo() // restores "hello, world"
//	e.Undo() // restores "hello"
//
// Consecutive typing coalesces into one undo group. BreakUndoGroup starts
// a new one; Batch collects several edits into one:
//
//	e.Batch(func() error {
//	    if err := e.Remove(start, end); err != nil {
//	        return err
//	    }
//	    _, err := e.InsertString(start, "fn")
//	    return err
//	})
//
// # Collaborators
//
// A parser receives one tracking.InputEdit per mutation. A mark tracker
// receives the difference between the old and the new text as minimal
// sub-edits:
//
//	tr := marks.NewTracker()
//	e := engine.New(engine.WithMarkTracker(tr))
//	m := tr.Insert("bookmark", engine.Pos(0, 0))
package engine

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'textcore.engine'
func tracer() tracing.Trace {
	return tracing.Select("textcore.engine")
}
