package history

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// rig applies edits to a buffer and records them the way the engine does.
type rig struct {
	t   *testing.T
	buf *buffer.Buffer
	h   *History
}

func newRig(t *testing.T, text string, opts ...Option) *rig {
	t.Helper()
	buf, err := buffer.NewFromString(text)
	if err != nil {
		t.Fatalf("load %q: %v", text, err)
	}
	return &rig{t: t, buf: buf, h: New(opts...)}
}

func (r *rig) insert(p buffer.Position, s string) {
	r.t.Helper()
	runs := []rune(s)
	if _, err := r.buf.Insert(p, runs); err != nil {
		r.t.Fatalf("insert %q at %s: %v", s, p, err)
	}
	r.h.RecordInsert(p, runs)
}

func (r *rig) remove(start, end buffer.Position) {
	r.t.Helper()
	old := r.h.Capture(r.buf, start, end)
	if err := r.buf.Remove(start, end); err != nil {
		r.h.Release(old)
		r.t.Fatalf("remove %s-%s: %v", start, end, err)
	}
	r.h.RecordRemove(start, end, old)
}

func (r *rig) replace(start, end buffer.Position, s string) {
	r.t.Helper()
	runs := []rune(s)
	old := r.h.Capture(r.buf, start, end)
	if _, err := r.buf.Replace(start, end, runs); err != nil {
		r.h.Release(old)
		r.t.Fatalf("replace %s-%s: %v", start, end, err)
	}
	r.h.RecordReplace(start, end, old, runs)
}

func (r *rig) undo() (buffer.Position, bool) {
	return r.h.Undo(r.buf)
}

func (r *rig) redo() (buffer.Position, bool) {
	return r.h.Redo(r.buf)
}

func (r *rig) expect(want string) {
	r.t.Helper()
	if got := r.buf.String(); got != want {
		r.t.Fatalf("text = %q, want %q", got, want)
	}
}

func (r *rig) check() {
	r.t.Helper()
	if err := r.h.CheckInvariants(); err != nil {
		r.t.Fatal(err)
	}
	if err := r.buf.CheckInvariants(); err != nil {
		r.t.Fatal(err)
	}
}

func TestTypingCoalesces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textcore.engine")
	defer teardown()

	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "a")
	r.insert(buffer.Pos(0, 1), "b")
	r.insert(buffer.Pos(0, 2), "c")
	r.check()

	if r.h.Len() != 1 {
		t.Fatalf("groups = %d, want 1", r.h.Len())
	}
	last := r.h.Last()
	if len(last) != 1 || last[0].NewText != "abc" {
		t.Fatalf("last group = %+v, want one change with new text %q", last, "abc")
	}
	if last[0].NewEnd != buffer.Pos(0, 3) {
		t.Errorf("new end = %s, want (0,3)", last[0].NewEnd)
	}

	p, ok := r.undo()
	if !ok || p != buffer.Pos(0, 0) {
		t.Fatalf("undo = %s, %v, want (0,0), true", p, ok)
	}
	r.expect("")
	p, ok = r.redo()
	if !ok || p != buffer.Pos(0, 3) {
		t.Fatalf("redo = %s, %v, want (0,3), true", p, ok)
	}
	r.expect("abc")
	r.check()
}

func TestBoundarySplitsGroups(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "a")
	r.h.Boundary()
	r.insert(buffer.Pos(0, 1), "b")
	if r.h.Len() != 2 {
		t.Fatalf("groups = %d, want 2", r.h.Len())
	}
	r.undo()
	r.expect("a")
	r.undo()
	r.expect("")
	r.check()
}

func TestNonContiguousInsertStartsGroup(t *testing.T) {
	r := newRig(t, "hello")
	r.insert(buffer.Pos(0, 5), "!")
	r.insert(buffer.Pos(0, 0), ">")
	if r.h.Len() != 2 {
		t.Fatalf("groups = %d, want 2", r.h.Len())
	}
	r.undo()
	r.expect("hello!")
}

func TestMultiLineTypingCoalesces(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "ab")
	r.insert(buffer.Pos(0, 2), "\n")
	r.insert(buffer.Pos(1, 0), "cd")
	if r.h.Len() != 1 {
		t.Fatalf("groups = %d, want 1", r.h.Len())
	}
	if got := r.h.Last()[0].NewEnd; got != buffer.Pos(1, 2) {
		t.Errorf("new end = %s, want (1,2)", got)
	}
	r.undo()
	r.expect("")
	r.redo()
	r.expect("ab\ncd")
}

func TestBackspaceTrimsInsertedText(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "abc")
	r.remove(buffer.Pos(0, 2), buffer.Pos(0, 3))
	r.check()

	last := r.h.Last()
	if r.h.Len() != 1 || last[0].NewText != "ab" || last[0].NewEnd != buffer.Pos(0, 2) {
		t.Fatalf("after backspace: groups=%d last=%+v", r.h.Len(), last)
	}

	r.remove(buffer.Pos(0, 0), buffer.Pos(0, 2))
	r.check()
	if r.h.Len() != 0 || r.h.CanUndo() {
		t.Fatalf("erasing everything typed should drop the group, got %d groups", r.h.Len())
	}
	r.expect("")
}

func TestBackspaceExtendsDeletion(t *testing.T) {
	r := newRig(t, "xyz")
	r.insert(buffer.Pos(0, 3), "a")
	r.remove(buffer.Pos(0, 3), buffer.Pos(0, 4))
	r.remove(buffer.Pos(0, 2), buffer.Pos(0, 3))
	r.remove(buffer.Pos(0, 1), buffer.Pos(0, 2))
	r.expect("x")
	r.check()

	if r.h.Len() != 1 {
		t.Fatalf("groups = %d, want 1", r.h.Len())
	}
	c := r.h.Last()[0]
	if c.OldText != "yz" || c.Start != buffer.Pos(0, 1) || c.OldEnd != buffer.Pos(0, 3) {
		t.Fatalf("change = %+v", c)
	}
	p, ok := r.undo()
	if !ok || p != buffer.Pos(0, 1) {
		t.Fatalf("undo = %s, %v", p, ok)
	}
	r.expect("xyz")
}

func TestForwardDeleteExtends(t *testing.T) {
	r := newRig(t, "hello\nworld")
	r.remove(buffer.Pos(0, 3), buffer.Pos(0, 4))
	r.remove(buffer.Pos(0, 3), buffer.Pos(0, 4))
	r.remove(buffer.Pos(0, 3), buffer.Pos(1, 1))
	r.expect("helorld")
	r.check()

	if r.h.Len() != 1 {
		t.Fatalf("groups = %d, want 1", r.h.Len())
	}
	c := r.h.Last()[0]
	if c.OldText != "lo\nw" || c.OldEnd != buffer.Pos(1, 1) {
		t.Fatalf("change = %+v", c)
	}
	r.undo()
	r.expect("hello\nworld")
	r.redo()
	r.expect("helorld")
}

func TestReplaceNeverCoalesces(t *testing.T) {
	r := newRig(t, "one two")
	r.insert(buffer.Pos(0, 0), "ab")
	r.replace(buffer.Pos(0, 2), buffer.Pos(0, 5), "1")
	r.expect("ab1 two")
	if r.h.Len() != 2 {
		t.Fatalf("groups = %d, want 2", r.h.Len())
	}

	// Typing right after a replacement extends it.
	r.insert(buffer.Pos(0, 3), "!")
	if r.h.Len() != 2 || r.h.Last()[0].NewText != "1!" {
		t.Fatalf("groups = %d, last = %+v", r.h.Len(), r.h.Last())
	}
	r.undo()
	r.expect("abone two")
	r.undo()
	r.expect("one two")
	r.check()
}

func TestCaptureRelinearizes(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("line ")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteString(" ääü 😀\n")
	}
	text := sb.String()
	r := newRig(t, text)
	end := r.buf.End()

	cases := []struct {
		start, end buffer.Position
	}{
		{buffer.Pos(0, 0), end},
		{buffer.Pos(0, 2), buffer.Pos(0, 7)},
		{buffer.Pos(3, 4), buffer.Pos(17, 1)},
		{buffer.Pos(5, 0), buffer.Pos(6, 0)},
	}
	for _, tc := range cases {
		got := r.h.Capture(r.buf, tc.start, tc.end)
		want := string(r.buf.Text(tc.start, tc.end))
		if s := r.h.String(got); s != want {
			t.Errorf("capture %s-%s = %q, want %q", tc.start, tc.end, s, want)
		}
		if got.Len() != len([]rune(want)) {
			t.Errorf("capture %s-%s len = %d, want %d", tc.start, tc.end, got.Len(), len([]rune(want)))
		}
		r.h.Release(got)
	}
	r.check()

	// Undo of a deletion spanning many chunks restores the text exactly.
	r.remove(buffer.Pos(0, 0), end)
	r.expect("")
	r.undo()
	r.expect(text)
	r.check()
}

func TestEmptyCapture(t *testing.T) {
	r := newRig(t, "abc")
	c := r.h.Capture(r.buf, buffer.Pos(0, 1), buffer.Pos(0, 1))
	if c.Len() != 0 {
		t.Fatalf("len = %d", c.Len())
	}
	r.h.RecordRemove(buffer.Pos(0, 1), buffer.Pos(0, 1), c)
	if r.h.Len() != 0 {
		t.Fatalf("empty removal recorded a group")
	}
	r.check()
}

func TestRingEvictsOldest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textcore.engine")
	defer teardown()

	r := newRig(t, "", WithCapacity(3))
	for i, s := range []string{"a", "b", "c", "d", "e"} {
		r.h.Boundary()
		r.insert(buffer.Pos(0, i), s)
		r.check()
	}
	if r.h.Len() != 3 || r.h.UndoDepth() != 3 {
		t.Fatalf("len = %d, undo depth = %d, want 3, 3", r.h.Len(), r.h.UndoDepth())
	}
	for i := 0; i < 3; i++ {
		if _, ok := r.undo(); !ok {
			t.Fatalf("undo %d failed", i)
		}
	}
	if p, ok := r.undo(); ok || !p.IsNull() {
		t.Fatalf("undo past oldest = %s, %v", p, ok)
	}
	r.expect("ab")
	if r.h.RedoDepth() != 3 {
		t.Fatalf("redo depth = %d, want 3", r.h.RedoDepth())
	}
	r.check()
}

func TestNewEditDiscardsRedo(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "a")
	r.h.Boundary()
	r.insert(buffer.Pos(0, 1), "b")
	r.undo()
	r.insert(buffer.Pos(0, 1), "c")
	r.check()

	if r.h.RedoDepth() != 0 || r.h.Len() != 2 {
		t.Fatalf("redo depth = %d, len = %d", r.h.RedoDepth(), r.h.Len())
	}
	if p, ok := r.redo(); ok || !p.IsNull() {
		t.Fatalf("redo = %s, %v, want null", p, ok)
	}
	r.expect("ac")
}

func TestUndoForcesBoundary(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "a")
	r.h.Boundary()
	r.insert(buffer.Pos(0, 1), "b")
	r.undo()
	r.redo()
	r.insert(buffer.Pos(0, 2), "c")
	if r.h.Len() != 3 {
		t.Fatalf("groups = %d, want 3", r.h.Len())
	}
}

func TestBatchCollectsEdits(t *testing.T) {
	r := newRig(t, "alpha\nbeta")
	r.h.BeginBatch()
	r.insert(buffer.Pos(0, 0), "# ")
	r.h.Boundary()
	r.h.BeginBatch()
	r.insert(buffer.Pos(1, 0), "# ")
	r.h.EndBatch()
	r.remove(buffer.Pos(1, 2), buffer.Pos(1, 3))
	r.h.EndBatch()
	r.expect("# alpha\n# eta")
	r.check()

	if r.h.Len() != 1 {
		t.Fatalf("groups = %d, want 1", r.h.Len())
	}
	if n := len(r.h.Last()); n != 2 {
		t.Fatalf("changes = %d, want 2", n)
	}
	p, ok := r.undo()
	if !ok || p != buffer.Pos(0, 0) {
		t.Fatalf("undo = %s, %v", p, ok)
	}
	r.expect("alpha\nbeta")
	p, _ = r.redo()
	if p != buffer.Pos(1, 2) {
		t.Errorf("redo = %s, want (1,2)", p)
	}
	r.expect("# alpha\n# eta")

	r.insert(buffer.Pos(1, 5), "!")
	if r.h.Len() != 2 {
		t.Fatalf("edit after batch joined it")
	}
}

func TestBatchHelpers(t *testing.T) {
	r := newRig(t, "x")
	func() {
		defer r.h.GroupScope().End()
		r.insert(buffer.Pos(0, 0), "1")
		r.insert(buffer.Pos(0, 2), "2")
	}()
	if r.h.InBatch() {
		t.Fatal("scope left batch open")
	}

	boom := errors.New("boom")
	err := r.h.Batch(func() error {
		r.insert(buffer.Pos(0, 0), "[")
		r.insert(buffer.Pos(0, 4), "]")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	r.expect("[1x2]")
	if r.h.Len() != 2 {
		t.Fatalf("groups = %d, want 2", r.h.Len())
	}
	r.undo()
	r.expect("1x2")
	r.undo()
	r.expect("x")
	r.h.EndBatch()
	r.check()
}

func TestClear(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "a")
	r.h.Boundary()
	r.remove(buffer.Pos(0, 0), buffer.Pos(0, 1))
	r.h.Clear()
	r.check()
	if r.h.Len() != 0 || r.h.CanUndo() || r.h.CanRedo() {
		t.Fatal("history not empty after Clear")
	}
	if r.h.Group(0) != nil || r.h.Last() != nil {
		t.Fatal("group introspection after Clear")
	}
}

type failingApplier struct{}

func (failingApplier) Replace(start, end buffer.Position, runs []rune) (buffer.Position, error) {
	return buffer.NullPosition, buffer.ErrOutOfRange
}

func TestUndoPanicsOnDesync(t *testing.T) {
	r := newRig(t, "")
	r.insert(buffer.Pos(0, 0), "a")
	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, buffer.ErrOutOfRange) {
			t.Fatalf("recovered %v, want ErrOutOfRange", rec)
		}
	}()
	r.h.Undo(failingApplier{})
}

func TestReplayNearLineLimit(t *testing.T) {
	tests := []struct {
		name  string
		edits func(r *rig)
		after string
	}{
		{"coalesced newline then forward delete", func(r *rig) {
			r.insert(buffer.Pos(0, 3), "\n")
			r.remove(buffer.Pos(1, 0), buffer.Pos(2, 0))
		}, "aaa\nbbb"},
		{"replace opening a line", func(r *rig) {
			r.replace(buffer.Pos(0, 3), buffer.Pos(1, 0), "\n\n")
		}, "aaa\n\nbbb"},
		{"replace then typing", func(r *rig) {
			r.replace(buffer.Pos(0, 3), buffer.Pos(1, 0), "\n")
			r.insert(buffer.Pos(1, 0), "\n")
		}, "aaa\n\nbbb"},
		{"split then backspace", func(r *rig) {
			r.insert(buffer.Pos(1, 0), "\n")
			r.remove(buffer.Pos(0, 3), buffer.Pos(1, 0))
		}, "aaa\nbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := buffer.NewFromString("aaa\nbbb", buffer.WithMaxLineLength(5))
			if err != nil {
				t.Fatal(err)
			}
			r := &rig{t: t, buf: buf, h: New()}
			tt.edits(r)
			r.expect(tt.after)

			for r.h.CanUndo() {
				r.undo()
			}
			r.expect("aaa\nbbb")
			for r.h.CanRedo() {
				r.redo()
			}
			r.expect(tt.after)
			r.check()
		})
	}
}

func randomEdit(rng *rand.Rand, r *rig) {
	alphabet := []rune("abc \n")
	text := func() string {
		rs := make([]rune, 1+rng.Intn(4))
		for i := range rs {
			rs[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(rs)
	}
	pos := func() buffer.Position {
		return r.buf.PositionFromOffset(rng.Intn(r.buf.Len()+1), buffer.Strict)
	}
	switch rng.Intn(6) {
	case 0, 1:
		r.insert(pos(), text())
	case 2:
		// Keep typing at the end of the newest change.
		if last := r.h.Last(); len(last) > 0 && r.h.RedoDepth() == 0 {
			r.insert(last[len(last)-1].NewEnd, text())
			return
		}
		r.insert(pos(), text())
	case 3, 4:
		a, b := pos(), pos()
		if b.Before(a) {
			a, b = b, a
		}
		r.remove(a, b)
	case 5:
		a, b := pos(), pos()
		if b.Before(a) {
			a, b = b, a
		}
		r.replace(a, b, text())
	}
}

func TestUndoRedoLaw(t *testing.T) {
	for _, boundaries := range []bool{true, false} {
		rng := rand.New(rand.NewSource(7))
		r := newRig(t, "seed text\nsecond line", WithCapacity(1000))
		snaps := map[int]string{0: r.buf.String()}
		for i := 0; i < 300; i++ {
			if boundaries || rng.Intn(4) == 0 {
				r.h.Boundary()
			}
			randomEdit(rng, r)
			snaps[r.h.UndoDepth()] = r.buf.String()
		}
		r.check()

		depth := r.h.UndoDepth()
		for d := depth - 1; d >= 0; d-- {
			if _, ok := r.undo(); !ok {
				t.Fatalf("undo to depth %d failed", d)
			}
			r.expect(snaps[d])
		}
		if _, ok := r.undo(); ok {
			t.Fatal("undo past the oldest group succeeded")
		}
		for d := 1; d <= depth; d++ {
			if _, ok := r.redo(); !ok {
				t.Fatalf("redo to depth %d failed", d)
			}
			r.expect(snaps[d])
		}
		r.check()
	}
}
