package pool

import "sync"

// RuneClasses are the capacities handed out by a RunePool.
var RuneClasses = [...]int{16, 64, 256, 1024, 4096}

// RunePool provides rune slices from a fixed set of size classes.
// It is safe for concurrent use.
type RunePool struct {
	classes [len(RuneClasses)]sync.Pool
}

// DefaultRunes is the pool used when no other pool is configured.
var DefaultRunes = NewRunePool()

// NewRunePool creates a new rune pool.
func NewRunePool() *RunePool {
	p := &RunePool{}
	for i := range p.classes {
		size := RuneClasses[i]
		p.classes[i].New = func() any {
			s := make([]rune, 0, size)
			return &s
		}
	}
	return p
}

// classFor returns the smallest class holding n runes, or -1.
func classFor(n int) int {
	for i, c := range RuneClasses {
		if n <= c {
			return i
		}
	}
	return -1
}

// Get returns an empty slice with capacity for at least n runes.
// Requests beyond the largest class are allocated directly.
func (p *RunePool) Get(n int) []rune {
	c := classFor(n)
	if c < 0 {
		return make([]rune, 0, n)
	}
	s := p.classes[c].Get().(*[]rune)
	return (*s)[:0]
}

// Put returns s to its class. Slices whose capacity is not exactly a class
// size are left to the garbage collector.
func (p *RunePool) Put(s []rune) {
	c := classFor(cap(s))
	if c < 0 || RuneClasses[c] != cap(s) {
		return
	}
	s = s[:0]
	p.classes[c].Put(&s)
}

// Grow returns s with room for n more runes, moving the contents into a
// larger class when needed. The old slice is returned to the pool.
func (p *RunePool) Grow(s []rune, n int) []rune {
	if len(s)+n <= cap(s) {
		return s
	}
	want := len(s) + n
	if want < 2*cap(s) {
		want = 2 * cap(s)
	}
	grown := append(p.Get(want), s...)
	p.Put(s)
	return grown
}

// Clone copies rs into a pooled slice.
func (p *RunePool) Clone(rs []rune) []rune {
	return append(p.Get(len(rs)), rs...)
}
