// Package syntax holds incremental parser collaborators for the edit engine.
//
// The engine hands a parser one tracking.InputEdit per mutation, inside the
// mutation's Finish, and the parser pulls the current content back through a
// Reader in row and byte-column coordinates. Recorder keeps the edits and
// the pulled text, which is enough for tests and tooling. TreeSitter, built
// with the tree_sitter tag, keeps a tree-sitter syntax tree up to date
// incrementally.
package syntax

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'textcore.engine'
func tracer() tracing.Trace {
	return tracing.Select("textcore.engine")
}
