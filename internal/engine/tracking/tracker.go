package tracking

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// DefaultRecentEdits is the default number of edit descriptions kept for
// inspection.
const DefaultRecentEdits = 64

// Parser is the incremental parser collaborator. Reparse runs synchronously
// inside Finish.
type Parser interface {
	Reparse(edit InputEdit)
}

// MarkTracker is the mark collaborator. ApplyEdit replaces [oldStart, oldEnd)
// by text ending at newEnd.
type MarkTracker interface {
	ApplyEdit(oldStart, oldEnd, newEnd buffer.Position)
}

// Document is the text the notifier snapshots and measures.
type Document interface {
	AppendText(dst []rune, start, end buffer.Position) []rune
	Offset(p buffer.Position, mode buffer.Mode) int
	ByteOffset(y, x int, mode buffer.Mode) int
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithParser attaches a parser collaborator.
func WithParser(p Parser) NotifierOption {
	return func(n *Notifier) {
		n.parser = p
	}
}

// WithMarkTracker attaches a mark collaborator.
func WithMarkTracker(m MarkTracker) NotifierOption {
	return func(n *Notifier) {
		n.marks = m
	}
}

// WithDiffOptions sets the options of the replay diff.
func WithDiffOptions(opts DiffOptions) NotifierOption {
	return func(n *Notifier) {
		n.diffOpts = opts
	}
}

// WithRecentEdits sets how many edit descriptions Recent can return.
func WithRecentEdits(count int) NotifierOption {
	return func(n *Notifier) {
		if count < 1 {
			count = 1
		}
		n.recent = make([]InputEdit, count)
	}
}

// Stats counts the work done by a Notifier.
type Stats struct {
	Edits    int // finished edits
	Reparses int // edits handed to the parser
	Replays  int // edits diff-replayed into the mark tracker
	SubEdits int // sub-edits applied to the mark tracker
}

// Notifier brackets every mutation with Start and Finish and keeps the
// collaborators in step with the text.
// It is not safe for concurrent use.
type Notifier struct {
	doc      Document
	parser   Parser
	marks    MarkTracker
	diffOpts DiffOptions

	active bool
	snap   bool
	start  buffer.Position
	edit   InputEdit
	before []rune
	after  []rune
	subs   []SubEdit

	// Recent edits in a ring buffer
	recent []InputEdit
	head   int // Index of oldest entry
	count  int // Number of entries

	stats Stats
}

// NewNotifier creates a notifier reading doc.
func NewNotifier(doc Document, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		doc:      doc,
		diffOpts: DefaultDiffOptions(),
		recent:   make([]InputEdit, DefaultRecentEdits),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetParser attaches p, or detaches the parser when p is nil.
func (n *Notifier) SetParser(p Parser) {
	n.parser = p
}

// SetMarkTracker attaches m, or detaches the mark tracker when m is nil.
func (n *Notifier) SetMarkTracker(m MarkTracker) {
	n.marks = m
}

// Parser returns the attached parser, if any.
func (n *Notifier) Parser() Parser {
	return n.parser
}

// MarkTracker returns the attached mark tracker, if any.
func (n *Notifier) MarkTracker() MarkTracker {
	return n.marks
}

// Active reports whether an edit is between Start and Finish.
func (n *Notifier) Active() bool {
	return n.active
}

func (n *Notifier) point(p buffer.Position) Point {
	return Point{Row: p.Line, Column: n.doc.ByteOffset(p.Line, p.Col, buffer.Strict)}
}

func (n *Notifier) fault(op string) {
	err := fmt.Errorf("%s: %w", op, ErrBracket)
	tracer().Errorf("notify: %v", err)
	panic(err)
}

// Start opens an edit of [start, end). It records the old range and, when a
// mark tracker is attached, snapshots the text about to change.
func (n *Notifier) Start(start, end buffer.Position) {
	if n.active {
		n.fault("start inside an open edit")
	}
	n.active = true
	n.start = start
	n.edit = InputEdit{
		StartByte:   n.doc.Offset(start, buffer.Strict),
		OldEndByte:  n.doc.Offset(end, buffer.Strict),
		StartPoint:  n.point(start),
		OldEndPoint: n.point(end),
	}
	n.snap = n.marks != nil
	if n.snap {
		n.before = n.doc.AppendText(n.before[:0], start, end)
	}
}

// Finish closes the open edit, whose new text ends at newEnd. The parser
// receives one edit description; the mark tracker receives the difference
// between the old and the new text as a sequence of fine-grained sub-edits.
// Finish returns the edit description.
func (n *Notifier) Finish(newEnd buffer.Position) InputEdit {
	if !n.active {
		n.fault("finish without start")
	}
	n.active = false

	e := n.edit
	e.NewEndByte = n.doc.Offset(newEnd, buffer.Strict)
	e.NewEndPoint = n.point(newEnd)
	n.remember(e)
	n.stats.Edits++

	if n.parser != nil {
		n.parser.Reparse(e)
		n.stats.Reparses++
	}
	n.subs = n.subs[:0]
	if n.snap && n.marks != nil {
		n.after = n.doc.AppendText(n.after[:0], n.start, newEnd)
		n.subs = Replay(n.start, DiffWithOptions(n.before, n.after, n.diffOpts))
		for _, s := range n.subs {
			n.marks.ApplyEdit(s.Start, s.OldEnd, s.NewEnd)
		}
		n.stats.Replays++
		n.stats.SubEdits += len(n.subs)
		tracer().Debugf("notify: %s replayed as %d sub-edits", e, len(n.subs))
	}
	return e
}

// Cancel closes the open edit without notifying anyone. It is used when the
// mutation was rejected and the text is unchanged.
func (n *Notifier) Cancel() {
	if !n.active {
		n.fault("cancel without start")
	}
	n.active = false
}

// LastReplay returns the sub-edits the last Finish applied to the mark
// tracker. The slice is reused by the next Finish.
func (n *Notifier) LastReplay() []SubEdit {
	return n.subs
}

// Stats returns the counters.
func (n *Notifier) Stats() Stats {
	return n.stats
}

func (n *Notifier) remember(e InputEdit) {
	size := len(n.recent)
	if n.count < size {
		n.recent[(n.head+n.count)%size] = e
		n.count++
		return
	}
	n.recent[n.head] = e
	n.head = (n.head + 1) % size
}

// Recent returns up to limit of the latest edit descriptions, oldest first.
// A limit of zero or less returns all retained edits.
func (n *Notifier) Recent(limit int) []InputEdit {
	if limit <= 0 || limit > n.count {
		limit = n.count
	}
	out := make([]InputEdit, 0, limit)
	for i := n.count - limit; i < n.count; i++ {
		out = append(out, n.recent[(n.head+i)%len(n.recent)])
	}
	return out
}

// Reset drops the retained edits and the counters. It panics inside an
// open edit.
func (n *Notifier) Reset() {
	if n.active {
		n.fault("reset inside an open edit")
	}
	n.head, n.count = 0, 0
	n.stats = Stats{}
}
