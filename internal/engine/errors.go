package engine

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrOutOfRange indicates a position outside the buffer.
	ErrOutOfRange = buffer.ErrOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrLineTooLong indicates an edit would exceed the line length limit.
	ErrLineTooLong = buffer.ErrLineTooLong

	// ErrTooManyLines indicates an edit would exceed the line count limit.
	ErrTooManyLines = buffer.ErrTooManyLines

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrConcurrentMutation is the panic value when a mutation starts while
	// another one is running.
	ErrConcurrentMutation = errors.New("concurrent mutation")
)
