// Package marks is a reference mark tracker for the edit engine.
//
// A Mark is a handle on a logical position that follows the text across
// edits. The tracker receives edits as (oldStart, oldEnd, newEnd) triples,
// the contract of the engine's mark collaborator, and moves every live mark
// with Transform.
//
// Transformation rules:
//   - Marks before the edit stay put.
//   - Marks after the replaced span shift by the edit.
//   - Marks strictly inside the replaced span move to the end of the new text.
//   - A mark exactly at an insertion point moves with the insertion under
//     Right gravity and stays under Left gravity.
package marks
