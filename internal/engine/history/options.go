package history

import "github.com/dshills/textcore/internal/engine/pool"

// DefaultCapacity is the number of undo groups retained by default.
const DefaultCapacity = 256

// Option configures a History.
type Option func(*History)

// WithCapacity sets the number of undo groups retained. Values below 1
// are raised to 1.
func WithCapacity(groups int) Option {
	return func(h *History) {
		if groups < 1 {
			groups = 1
		}
		h.capacity = groups
	}
}

// WithArena makes the history store change text in a.
func WithArena(a *pool.Arena) Option {
	return func(h *History) {
		if a != nil {
			h.arena = a
		}
	}
}
