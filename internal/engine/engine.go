package engine

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/tracking"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line and codepoint column.
	Position = buffer.Position

	// Mode selects strict or lenient handling of out-of-range coordinates.
	Mode = buffer.Mode

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// InputEdit describes one mutation to the parser.
	InputEdit = tracking.InputEdit
)

// Re-export constants.
const (
	Strict  = buffer.Strict
	Lenient = buffer.Lenient

	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// NullPosition is returned where no position applies.
var NullPosition = buffer.NullPosition

// Pos returns the position at line and col.
func Pos(line, col int) Position {
	return buffer.Pos(line, col)
}

// Engine is the facade of the text engine. It owns one buffer, its undo
// history and the notifier that keeps collaborators in step.
//
// An Engine has a single writer; see the package documentation.
type Engine struct {
	id      uuid.UUID
	buf     *buffer.Buffer
	history *history.History
	notify  *tracking.Notifier

	recording bool
	readOnly  bool
	writing   atomic.Bool

	bufOpts    []buffer.Option
	histOpts   []history.Option
	notifyOpts []tracking.NotifierOption
}

// New creates an engine holding a single empty line.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:        uuid.New(),
		recording: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.buf = buffer.New(e.bufOpts...)
	if e.recording {
		e.history = history.New(e.histOpts...)
	}
	e.notify = tracking.NewNotifier(e.buf, e.notifyOpts...)
	e.bufOpts, e.histOpts, e.notifyOpts = nil, nil, nil
	tracer().P("engine", e.id).Debugf("created")
	return e
}

// NewFromReader creates an engine and loads the text read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := New(opts...)
	if err := e.Load(r); err != nil {
		return nil, err
	}
	return e, nil
}

// NewFromString creates an engine holding s.
func NewFromString(s string, opts ...Option) (*Engine, error) {
	return NewFromReader(strings.NewReader(s), opts...)
}

// ID returns the instance id used in traces.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// enter claims the writer role for op. A second claim while the first is
// held is a contract violation.
func (e *Engine) enter(op string) {
	if !e.writing.CompareAndSwap(false, true) {
		err := fmt.Errorf("engine: %s: %w", op, ErrConcurrentMutation)
		tracer().P("engine", e.id).Errorf("%v", err)
		panic(err)
	}
}

func (e *Engine) leave() {
	e.writing.Store(false)
}

// ============================================================================
// Loading and saving
// ============================================================================

// Load replaces the text with the text read from r and drops the undo
// history. Collaborators see one edit over the whole text. On error the
// text is unchanged and no one is notified.
func (e *Engine) Load(r io.Reader) error {
	e.enter("load")
	defer e.leave()

	e.notify.Start(buffer.Pos(0, 0), e.buf.End())
	if err := e.buf.Load(r); err != nil {
		e.notify.Cancel()
		return fmt.Errorf("load: %w", err)
	}
	e.notify.Finish(e.buf.End())
	if e.history != nil {
		e.history.Clear()
	}
	tracer().P("engine", e.id).Infof("loaded %d lines, %d bytes", e.buf.LineCount(), e.buf.Len())
	return nil
}

// LoadString replaces the text with s.
func (e *Engine) LoadString(s string) error {
	return e.Load(strings.NewReader(s))
}

// WriteTo writes the text to w using the buffer's line ending.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	return e.buf.WriteTo(w)
}

// ============================================================================
// Mutation
// ============================================================================

func (e *Engine) checkRange(op string, start, end Position) error {
	if !e.buf.Valid(start) || !e.buf.Valid(end) {
		return fmt.Errorf("%s %s-%s: %w", op, start, end, ErrOutOfRange)
	}
	if end.Before(start) {
		return fmt.Errorf("%s %s-%s: %w", op, start, end, ErrRangeInvalid)
	}
	return nil
}

// Insert inserts runs at p and returns the position just after them.
func (e *Engine) Insert(p Position, runs []rune) (Position, error) {
	if e.readOnly {
		return NullPosition, ErrReadOnly
	}
	e.enter("insert")
	defer e.leave()
	return e.insert(p, runs, e.history != nil)
}

// InsertString inserts s at p.
func (e *Engine) InsertString(p Position, s string) (Position, error) {
	return e.Insert(p, []rune(s))
}

func (e *Engine) insert(p Position, runs []rune, record bool) (Position, error) {
	if !e.buf.Valid(p) {
		return NullPosition, fmt.Errorf("insert at %s: %w", p, ErrOutOfRange)
	}
	if len(runs) == 0 {
		return p, nil
	}
	e.notify.Start(p, p)
	end, err := e.buf.Insert(p, runs)
	if err != nil {
		e.notify.Cancel()
		return NullPosition, err
	}
	e.notify.Finish(end)
	if record {
		e.history.RecordInsert(p, runs)
	}
	return end, nil
}

// Remove deletes the text in [start, end).
func (e *Engine) Remove(start, end Position) error {
	if e.readOnly {
		return ErrReadOnly
	}
	e.enter("remove")
	defer e.leave()
	return e.remove(start, end, e.history != nil)
}

func (e *Engine) remove(start, end Position, record bool) error {
	if err := e.checkRange("remove", start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	var old history.Text
	if record {
		old = e.history.Capture(e.buf, start, end)
	}
	e.notify.Start(start, end)
	if err := e.buf.Remove(start, end); err != nil {
		e.notify.Cancel()
		if record {
			e.history.Release(old)
		}
		return err
	}
	e.notify.Finish(start)
	if record {
		e.history.RecordRemove(start, end, old)
	}
	return nil
}

// Replace replaces the text in [start, end) by runs as one edit: one
// notification and one recorded change. It returns the end of the new
// text. The limits apply to the resulting text, and a rejected replace
// leaves the text unchanged.
func (e *Engine) Replace(start, end Position, runs []rune) (Position, error) {
	if e.readOnly {
		return NullPosition, ErrReadOnly
	}
	e.enter("replace")
	defer e.leave()
	return e.replace(start, end, runs, e.history != nil)
}

func (e *Engine) replace(start, end Position, runs []rune, record bool) (Position, error) {
	if err := e.checkRange("replace", start, end); err != nil {
		return NullPosition, err
	}
	if start == end {
		return e.insert(start, runs, record)
	}
	if len(runs) == 0 {
		return start, e.remove(start, end, record)
	}

	var old history.Text
	if record {
		old = e.history.Capture(e.buf, start, end)
	}
	e.notify.Start(start, end)
	newEnd, err := e.buf.Replace(start, end, runs)
	if err != nil {
		e.notify.Cancel()
		if record {
			e.history.Release(old)
		}
		return NullPosition, err
	}
	e.notify.Finish(newEnd)
	if record {
		e.history.RecordReplace(start, end, old, runs)
	}
	return newEnd, nil
}

// ReplaceString replaces the text in [start, end) by s.
func (e *Engine) ReplaceString(start, end Position, s string) (Position, error) {
	return e.Replace(start, end, []rune(s))
}

// ============================================================================
// Undo/Redo
// ============================================================================

// replayer applies history changes through the notifying edit path with
// recording switched off.
type replayer struct {
	e *Engine
}

func (r replayer) Replace(start, end Position, runs []rune) (Position, error) {
	return r.e.replace(start, end, runs, false)
}

// Undo reverts the latest undo group and returns the start of its first
// change. It returns NullPosition and false when there is nothing to undo.
func (e *Engine) Undo() (Position, bool) {
	if e.history == nil || e.readOnly {
		return NullPosition, false
	}
	e.enter("undo")
	defer e.leave()
	return e.history.Undo(replayer{e})
}

// Redo reapplies the latest undone group and returns the end of its last
// change. It returns NullPosition and false when there is nothing to redo.
func (e *Engine) Redo() (Position, bool) {
	if e.history == nil || e.readOnly {
		return NullPosition, false
	}
	e.enter("redo")
	defer e.leave()
	return e.history.Redo(replayer{e})
}

// HistoryEnabled reports whether edits are recorded.
func (e *Engine) HistoryEnabled() bool {
	return e.history != nil
}

// CanUndo returns true if there are operations to undo.
func (e *Engine) CanUndo() bool {
	return e.history != nil && e.history.CanUndo()
}

// CanRedo returns true if there are operations to redo.
func (e *Engine) CanRedo() bool {
	return e.history != nil && e.history.CanRedo()
}

// UndoDepth returns the number of undo groups.
func (e *Engine) UndoDepth() int {
	if e.history == nil {
		return 0
	}
	return e.history.UndoDepth()
}

// RedoDepth returns the number of redo groups.
func (e *Engine) RedoDepth() int {
	if e.history == nil {
		return 0
	}
	return e.history.RedoDepth()
}

// BreakUndoGroup makes the next edit start a new undo group, for example
// after the cursor moved.
func (e *Engine) BreakUndoGroup() {
	if e.history != nil {
		e.history.Boundary()
	}
}

// BeginBatch starts collecting edits into one undo group. Calls nest.
func (e *Engine) BeginBatch() {
	if e.history != nil {
		e.history.BeginBatch()
	}
}

// EndBatch closes the innermost batch.
func (e *Engine) EndBatch() {
	if e.history != nil {
		e.history.EndBatch()
	}
}

// Batch runs fn with every edit it makes collected into one undo group.
// Edits made before fn failed stay applied.
func (e *Engine) Batch(fn func() error) error {
	if e.history == nil {
		return fn()
	}
	return e.history.Batch(fn)
}

// LastUndoGroup describes the changes Undo would revert next.
func (e *Engine) LastUndoGroup() []history.ChangeInfo {
	if e.history == nil {
		return nil
	}
	return e.history.Last()
}

// ClearHistory drops every undo and redo group.
func (e *Engine) ClearHistory() {
	if e.history != nil {
		e.history.Clear()
	}
}

// ============================================================================
// Collaborators
// ============================================================================

// SetParser attaches p, or detaches the parser when p is nil.
func (e *Engine) SetParser(p tracking.Parser) {
	e.enter("set parser")
	defer e.leave()
	e.notify.SetParser(p)
}

// SetMarkTracker attaches m, or detaches the mark tracker when m is nil.
func (e *Engine) SetMarkTracker(m tracking.MarkTracker) {
	e.enter("set mark tracker")
	defer e.leave()
	e.notify.SetMarkTracker(m)
}

// Stats returns the notification counters.
func (e *Engine) Stats() tracking.Stats {
	return e.notify.Stats()
}

// RecentEdits returns up to limit of the latest edit descriptions, oldest
// first.
func (e *Engine) RecentEdits(limit int) []InputEdit {
	return e.notify.Recent(limit)
}

// LastReplay returns the sub-edits the latest mutation replayed into the
// mark tracker.
func (e *Engine) LastReplay() []tracking.SubEdit {
	return e.notify.LastReplay()
}

// IsReadOnly returns true if the engine is read-only.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// CheckInvariants verifies the buffer and the history.
func (e *Engine) CheckInvariants() error {
	if err := e.buf.CheckInvariants(); err != nil {
		return err
	}
	if e.history != nil {
		return e.history.CheckInvariants()
	}
	return nil
}
