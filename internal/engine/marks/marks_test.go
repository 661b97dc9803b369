package marks

import (
	"strings"
	"testing"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/tracking"
)

func TestTransform(t *testing.T) {
	p := buffer.Pos
	tests := []struct {
		name     string
		mark     buffer.Position
		oldStart buffer.Position
		oldEnd   buffer.Position
		newEnd   buffer.Position
		gravity  Gravity
		want     buffer.Position
	}{
		{"before edit", p(0, 1), p(0, 3), p(0, 5), p(0, 3), Right, p(0, 1)},
		{"insert at mark right", p(0, 3), p(0, 3), p(0, 3), p(0, 6), Right, p(0, 6)},
		{"insert at mark left", p(0, 3), p(0, 3), p(0, 3), p(0, 6), Left, p(0, 3)},
		{"delete starting at mark", p(0, 3), p(0, 3), p(0, 6), p(0, 3), Right, p(0, 3)},
		{"inside deletion", p(0, 4), p(0, 3), p(0, 6), p(0, 3), Right, p(0, 3)},
		{"inside replacement", p(0, 4), p(0, 3), p(0, 6), p(1, 2), Left, p(1, 2)},
		{"after on same line", p(0, 8), p(0, 3), p(0, 6), p(0, 4), Right, p(0, 6)},
		{"after newline insert", p(0, 8), p(0, 3), p(0, 3), p(1, 1), Right, p(1, 6)},
		{"later line after join", p(3, 2), p(0, 3), p(1, 0), p(0, 3), Right, p(2, 2)},
		{"end of deletion", p(1, 0), p(0, 3), p(1, 0), p(0, 3), Right, p(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.mark, tt.oldStart, tt.oldEnd, tt.newEnd, tt.gravity)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	a := tr.Insert("bp", buffer.Pos(0, 1))
	b := tr.InsertWithGravity("diag", buffer.Pos(0, 1), Left)
	c := tr.Insert("bp", buffer.Pos(2, 0))
	if tr.Len() != 3 {
		t.Fatalf("len = %d, want 3", tr.Len())
	}

	tr.ApplyEdit(buffer.Pos(0, 1), buffer.Pos(0, 1), buffer.Pos(0, 4))
	if a.Pos() != buffer.Pos(0, 4) || b.Pos() != buffer.Pos(0, 1) || c.Pos() != buffer.Pos(2, 0) {
		t.Fatalf("positions = %s %s %s", a.Pos(), b.Pos(), c.Pos())
	}

	bps := tr.Marks("bp")
	if len(bps) != 2 || bps[0] != a || bps[1] != c {
		t.Fatalf("bp marks = %v", bps)
	}
	if all := tr.Marks(""); len(all) != 3 || all[0] != b {
		t.Fatalf("all marks not ordered by position")
	}

	a.Delete()
	a.Delete()
	if !a.Deleted() || !a.Pos().IsNull() || tr.Len() != 2 {
		t.Fatalf("delete: deleted=%v pos=%s len=%d", a.Deleted(), a.Pos(), tr.Len())
	}
	tr.ApplyEdit(buffer.Pos(0, 0), buffer.Pos(1, 0), buffer.Pos(0, 0))
	if c.Pos() != buffer.Pos(1, 0) {
		t.Errorf("c = %s, want (1,0)", c.Pos())
	}

	tr.Clear()
	if tr.Len() != 0 || !b.Deleted() || !c.Deleted() {
		t.Error("clear left live marks")
	}
}

func TestMarksFollowMinimalReplay(t *testing.T) {
	line := strings.Repeat("ab", 500)
	doc, err := buffer.NewFromString(line + "\nnext")
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTracker()
	n := tracking.NewNotifier(doc, tracking.WithMarkTracker(tr))

	before := tr.Insert("m", buffer.Pos(0, 100))
	after := tr.Insert("m", buffer.Pos(0, 900))
	next := tr.Insert("m", buffer.Pos(1, 2))

	// Rewrite the whole line, changing one codepoint at column 500.
	changed := []rune(line)
	changed[500] = 'Z'
	n.Start(buffer.Pos(0, 0), buffer.Pos(0, 1000))
	if err := doc.Remove(buffer.Pos(0, 0), buffer.Pos(0, 1000)); err != nil {
		t.Fatal(err)
	}
	end, err := doc.Insert(buffer.Pos(0, 0), changed)
	if err != nil {
		t.Fatal(err)
	}
	n.Finish(end)

	if before.Pos() != buffer.Pos(0, 100) || after.Pos() != buffer.Pos(0, 900) || next.Pos() != buffer.Pos(1, 2) {
		t.Fatalf("marks moved: %s %s %s", before.Pos(), after.Pos(), next.Pos())
	}
	if got := len(n.LastReplay()); got != 2 {
		t.Errorf("sub-edits = %d, want 2", got)
	}
}

func TestMarksFollowLineJoin(t *testing.T) {
	doc, err := buffer.NewFromString("one\ntwo\nthree")
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTracker()
	n := tracking.NewNotifier(doc, tracking.WithMarkTracker(tr))
	m := tr.Insert("m", buffer.Pos(2, 3))

	n.Start(buffer.Pos(0, 3), buffer.Pos(1, 0))
	if err := doc.Remove(buffer.Pos(0, 3), buffer.Pos(1, 0)); err != nil {
		t.Fatal(err)
	}
	n.Finish(buffer.Pos(0, 3))

	if m.Pos() != buffer.Pos(1, 3) {
		t.Errorf("mark = %s, want (1,3)", m.Pos())
	}
}
