package tracking

import (
	"errors"
	"math/rand"
	"runtime"
	"strings"
	"testing"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sides rebuilds both sequences from an edit script.
func sides(ops []DiffOp) (string, string) {
	var before, after strings.Builder
	for _, op := range ops {
		s := string(op.Runs)
		switch op.Type {
		case DiffSame:
			before.WriteString(s)
			after.WriteString(s)
		case DiffDelete:
			before.WriteString(s)
		case DiffInsert:
			after.WriteString(s)
		}
	}
	return before.String(), after.String()
}

type wantOp struct {
	t DiffType
	s string
}

func opsOf(ops []DiffOp) []wantOp {
	out := make([]wantOp, len(ops))
	for i, op := range ops {
		out[i] = wantOp{op.Type, string(op.Runs)}
	}
	return out
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []wantOp
	}{
		{"equal", "abc", "abc", []wantOp{{DiffSame, "abc"}}},
		{"both empty", "", "", nil},
		{"insert into empty", "", "xy", []wantOp{{DiffInsert, "xy"}}},
		{"delete all", "xy", "", []wantOp{{DiffDelete, "xy"}}},
		{"change last", "abc", "abd", []wantOp{{DiffSame, "ab"}, {DiffDelete, "c"}, {DiffInsert, "d"}}},
		{"insert middle", "ac", "abc", []wantOp{{DiffSame, "a"}, {DiffInsert, "b"}, {DiffSame, "c"}}},
		{"delete middle", "a\nbc", "ac", []wantOp{{DiffSame, "a"}, {DiffDelete, "\nb"}, {DiffSame, "c"}}},
		{"non-ascii", "h€llo", "hello", []wantOp{{DiffSame, "h"}, {DiffDelete, "€"}, {DiffInsert, "e"}, {DiffSame, "llo"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Diff([]rune(tt.before), []rune(tt.after))
			assert.Equal(t, tt.want, opsOf(ops))
		})
	}
}

func TestDiffIsMinimal(t *testing.T) {
	// LCS of "ABCABBA" and "CBABAC" has length 4.
	ops := Diff([]rune("ABCABBA"), []rune("CBABAC"))
	changed := 0
	for _, op := range ops {
		if op.Type != DiffSame {
			changed += len(op.Runs)
		}
	}
	assert.Equal(t, 5, changed)
	before, after := sides(ops)
	assert.Equal(t, "ABCABBA", before)
	assert.Equal(t, "CBABAC", after)
}

func TestDiffRebuildsBothSides(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	alphabet := []rune("ab\n€")
	gen := func() []rune {
		rs := make([]rune, rng.Intn(40))
		for i := range rs {
			rs[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return rs
	}
	for i := 0; i < 200; i++ {
		a, b := gen(), gen()
		ops := Diff(a, b)
		before, after := sides(ops)
		require.Equal(t, string(a), before)
		require.Equal(t, string(b), after)
		for j := 1; j < len(ops); j++ {
			require.NotEqual(t, ops[j-1].Type, ops[j].Type, "adjacent runs of one type are merged")
		}
	}
}

func TestDiffFallsBackCoarsely(t *testing.T) {
	ops := DiffWithOptions([]rune("<abcd>"), []rune("<wxyz>"), DiffOptions{MaxEditDistance: 2})
	assert.Equal(t, []wantOp{
		{DiffSame, "<"},
		{DiffDelete, "abcd"},
		{DiffInsert, "wxyz"},
		{DiffSame, ">"},
	}, opsOf(ops))
}

func TestDiffMemoryFollowsBound(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
	}{
		{"same length", strings.Repeat("a", 1<<20), strings.Repeat("b", 1<<20)},
		{"length difference above bound", strings.Repeat("a", 1<<20), "bbbb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, after := []rune(tt.before), []rune(tt.after)

			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			start := ms.TotalAlloc
			ops := DiffWithOptions(before, after, DiffOptions{MaxEditDistance: 16})
			runtime.ReadMemStats(&ms)

			require.Len(t, ops, 2)
			assert.Equal(t, DiffDelete, ops[0].Type)
			assert.Equal(t, DiffInsert, ops[1].Type)
			assert.Less(t, ms.TotalAlloc-start, uint64(1<<16), "diff bounded at 16 steps")
		})
	}
}

func TestReplay(t *testing.T) {
	ops := []DiffOp{
		{Type: DiffSame, Runs: []rune("ab\n")},
		{Type: DiffDelete, Runs: []rune("c\nd")},
		{Type: DiffInsert, Runs: []rune("xy")},
		{Type: DiffSame, Runs: []rune("z")},
		{Type: DiffInsert, Runs: []rune("\n")},
	}
	got := Replay(buffer.Pos(2, 1), ops)
	want := []SubEdit{
		{Type: ChangeDelete, Start: buffer.Pos(3, 0), OldEnd: buffer.Pos(4, 1), NewEnd: buffer.Pos(3, 0)},
		{Type: ChangeInsert, Start: buffer.Pos(3, 0), OldEnd: buffer.Pos(3, 0), NewEnd: buffer.Pos(3, 2)},
		{Type: ChangeInsert, Start: buffer.Pos(3, 3), OldEnd: buffer.Pos(3, 3), NewEnd: buffer.Pos(4, 0)},
	}
	assert.Equal(t, want, got)
}

type recordingParser struct {
	edits []InputEdit
}

func (p *recordingParser) Reparse(e InputEdit) {
	p.edits = append(p.edits, e)
}

type recordingMarks struct {
	edits []SubEdit
}

func (m *recordingMarks) ApplyEdit(oldStart, oldEnd, newEnd buffer.Position) {
	m.edits = append(m.edits, SubEdit{Start: oldStart, OldEnd: oldEnd, NewEnd: newEnd})
}

func newDoc(t *testing.T, text string) *buffer.Buffer {
	t.Helper()
	b, err := buffer.NewFromString(text)
	require.NoError(t, err)
	return b
}

func TestNotifierDescribesEdit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textcore.engine")
	defer teardown()

	doc := newDoc(t, "héllo\nworld")
	parser := &recordingParser{}
	n := NewNotifier(doc, WithParser(parser))

	n.Start(buffer.Pos(0, 2), buffer.Pos(1, 1))
	require.True(t, n.Active())
	require.NoError(t, doc.Remove(buffer.Pos(0, 2), buffer.Pos(1, 1)))
	end, err := doc.Insert(buffer.Pos(0, 2), []rune("ß\nX"))
	require.NoError(t, err)
	e := n.Finish(end)

	want := InputEdit{
		StartByte:   3,
		OldEndByte:  8,
		NewEndByte:  7,
		StartPoint:  Point{Row: 0, Column: 3},
		OldEndPoint: Point{Row: 1, Column: 1},
		NewEndPoint: Point{Row: 1, Column: 1},
	}
	assert.Equal(t, want, e)
	assert.Equal(t, []InputEdit{want}, parser.edits)
	assert.False(t, n.Active())
	assert.Equal(t, Stats{Edits: 1, Reparses: 1}, n.Stats())
}

func TestNotifierReplaysMinimalEdits(t *testing.T) {
	line := strings.Repeat("x", 1000)
	doc := newDoc(t, line+"\ntail")
	marks := &recordingMarks{}
	n := NewNotifier(doc, WithMarkTracker(marks))

	changed := []rune(line)
	changed[500] = 'y'
	n.Start(buffer.Pos(0, 0), buffer.Pos(0, 1000))
	require.NoError(t, doc.Remove(buffer.Pos(0, 0), buffer.Pos(0, 1000)))
	end, err := doc.Insert(buffer.Pos(0, 0), changed)
	require.NoError(t, err)
	n.Finish(end)

	assert.Equal(t, []SubEdit{
		{Start: buffer.Pos(0, 500), OldEnd: buffer.Pos(0, 501), NewEnd: buffer.Pos(0, 500)},
		{Start: buffer.Pos(0, 500), OldEnd: buffer.Pos(0, 500), NewEnd: buffer.Pos(0, 501)},
	}, marks.edits)
	assert.Len(t, n.LastReplay(), 2)
	assert.Equal(t, 2, n.Stats().SubEdits)
}

func TestNotifierPureInsert(t *testing.T) {
	doc := newDoc(t, "ab")
	marks := &recordingMarks{}
	n := NewNotifier(doc, WithMarkTracker(marks))

	n.Start(buffer.Pos(0, 1), buffer.Pos(0, 1))
	end, err := doc.Insert(buffer.Pos(0, 1), []rune("\n"))
	require.NoError(t, err)
	e := n.Finish(end)

	assert.Equal(t, 1, e.StartByte)
	assert.Equal(t, 2, e.NewEndByte)
	assert.Equal(t, Point{Row: 1, Column: 0}, e.NewEndPoint)
	assert.Equal(t, []SubEdit{
		{Start: buffer.Pos(0, 1), OldEnd: buffer.Pos(0, 1), NewEnd: buffer.Pos(1, 0)},
	}, marks.edits)
}

func TestNotifierDetach(t *testing.T) {
	doc := newDoc(t, "ab")
	marks := &recordingMarks{}
	n := NewNotifier(doc)
	n.SetMarkTracker(marks)
	assert.Equal(t, marks, n.MarkTracker())
	n.SetMarkTracker(nil)
	assert.Nil(t, n.Parser())

	n.Start(buffer.Pos(0, 0), buffer.Pos(0, 0))
	_, err := doc.Insert(buffer.Pos(0, 0), []rune("x"))
	require.NoError(t, err)
	n.Finish(buffer.Pos(0, 1))
	assert.Empty(t, marks.edits)
	assert.Equal(t, Stats{Edits: 1}, n.Stats())
}

func TestNotifierBracketPanics(t *testing.T) {
	doc := newDoc(t, "ab")
	n := NewNotifier(doc)

	expectBracket := func(fn func()) {
		t.Helper()
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			assert.True(t, errors.Is(err, ErrBracket))
		}()
		fn()
	}
	expectBracket(func() { n.Finish(buffer.Pos(0, 0)) })
	expectBracket(n.Cancel)
	n.Start(buffer.Pos(0, 0), buffer.Pos(0, 1))
	n.Cancel()
	assert.False(t, n.Active())
	assert.Equal(t, Stats{}, n.Stats())
	n.Start(buffer.Pos(0, 0), buffer.Pos(0, 1))
	expectBracket(func() { n.Start(buffer.Pos(0, 0), buffer.Pos(0, 1)) })
	expectBracket(n.Reset)
	n.Finish(buffer.Pos(0, 1))
	assert.NotPanics(t, n.Reset)
}

func TestNotifierRecent(t *testing.T) {
	doc := newDoc(t, "abcdef")
	n := NewNotifier(doc, WithRecentEdits(2))
	for i := 0; i < 3; i++ {
		n.Start(buffer.Pos(0, i), buffer.Pos(0, i))
		n.Finish(buffer.Pos(0, i))
	}
	recent := n.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, 1, recent[0].StartByte)
	assert.Equal(t, 2, recent[1].StartByte)
	assert.Equal(t, []InputEdit{recent[1]}, n.Recent(1))

	n.Reset()
	assert.Empty(t, n.Recent(0))
	assert.Equal(t, Stats{}, n.Stats())
}
