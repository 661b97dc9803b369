package buffer

// LineIndex mirrors the per-line byte counts of a Buffer so that global byte
// offsets can be answered without summing every preceding line. The buffer
// notifies it of every change to the byte-count array, in order.
type LineIndex interface {
	// Reset replaces the whole index.
	Reset(counts []int)
	// SetLine updates the count of one line.
	SetLine(y, count int)
	// InsertLines inserts counts before line y.
	InsertLines(y int, counts []int)
	// DeleteLines removes n lines starting at y.
	DeleteLines(y, n int)
}

// PrefixIndex is a LineIndex keeping prefix sums that are extended lazily
// from the first line changed since the last query.
type PrefixIndex struct {
	counts []int
	prefix []int // prefix[y] is the sum of counts[:y]; entries past a change are dropped
}

// NewPrefixIndex creates an empty index.
func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{prefix: []int{0}}
}

// Reset implements LineIndex.
func (x *PrefixIndex) Reset(counts []int) {
	x.counts = append(x.counts[:0], counts...)
	x.prefix = x.prefix[:1]
}

// SetLine implements LineIndex.
func (x *PrefixIndex) SetLine(y, count int) {
	x.counts[y] = count
	x.invalidate(y)
}

// InsertLines implements LineIndex.
func (x *PrefixIndex) InsertLines(y int, counts []int) {
	x.counts = append(x.counts[:y], append(append([]int(nil), counts...), x.counts[y:]...)...)
	x.invalidate(y)
}

// DeleteLines implements LineIndex.
func (x *PrefixIndex) DeleteLines(y, n int) {
	x.counts = append(x.counts[:y], x.counts[y+n:]...)
	x.invalidate(y)
}

func (x *PrefixIndex) invalidate(y int) {
	if len(x.prefix) > y+1 {
		x.prefix = x.prefix[:y+1]
	}
}

// Lines returns the number of indexed lines.
func (x *PrefixIndex) Lines() int {
	return len(x.counts)
}

// Offset returns the global byte offset of the start of line y.
func (x *PrefixIndex) Offset(y int) int {
	for len(x.prefix) <= y {
		n := len(x.prefix)
		x.prefix = append(x.prefix, x.prefix[n-1]+x.counts[n-1])
	}
	return x.prefix[y]
}

// Line returns the line containing global byte offset off, clamped to the
// last line.
func (x *PrefixIndex) Line(off int) int {
	lo, hi := 0, len(x.counts)-1
	x.Offset(len(x.counts))
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if x.prefix[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
