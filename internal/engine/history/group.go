package history

// GroupScope keeps a batch open until End is called.
// Usage:
//
//	func reindent(h *History, ...) {
//	    defer h.GroupScope().End()
//	    // ... several edits, undone as one ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope opens a batch and returns the scope that closes it.
func (h *History) GroupScope() *GroupScope {
	h.BeginBatch()
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End closes the batch. Only the first call has an effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndBatch()
		g.active = false
	}
}

// Batch runs fn with every edit it records collected into one group.
// Edits applied before fn failed stay recorded, so they can be undone.
func (h *History) Batch(fn func() error) error {
	h.BeginBatch()
	defer h.EndBatch()
	return fn()
}
