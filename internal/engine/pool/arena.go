package pool

// ChunkClasses are the capacities of arena chunks.
var ChunkClasses = [...]int{8, 32, 128}

// MaxChunk is the capacity of the largest chunk class.
var MaxChunk = ChunkClasses[len(ChunkClasses)-1]

// Handle addresses a chunk in an Arena. The zero Handle is nil.
type Handle uint32

// Nil is the handle of no chunk.
const Nil Handle = 0

const (
	classShift = 30
	indexMask  = 1<<classShift - 1
)

func makeHandle(class, index int) Handle {
	return Handle(uint32(class)<<classShift | uint32(index+1))
}

func (h Handle) class() int { return int(h >> classShift) }
func (h Handle) index() int { return int(h&indexMask) - 1 }

type chunk struct {
	runes []rune
	next  Handle
}

type slab struct {
	chunks []chunk
	free   []int
}

// Arena allocates fixed-capacity rune chunks addressed by Handle.
// It is not safe for concurrent use.
type Arena struct {
	slabs [len(ChunkClasses)]slab
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Live returns the number of allocated chunks.
func (a *Arena) Live() int {
	return a.live
}

// Alloc returns an empty chunk able to hold n runes, or the largest
// chunk when n exceeds every class.
func (a *Arena) Alloc(n int) Handle {
	class := len(ChunkClasses) - 1
	for i, c := range ChunkClasses {
		if n <= c {
			class = i
			break
		}
	}

	s := &a.slabs[class]
	a.live++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.chunks[idx].next = Nil
		s.chunks[idx].runes = s.chunks[idx].runes[:0]
		return makeHandle(class, idx)
	}
	s.chunks = append(s.chunks, chunk{runes: make([]rune, 0, ChunkClasses[class])})
	return makeHandle(class, len(s.chunks)-1)
}

func (a *Arena) chunk(h Handle) *chunk {
	if h == Nil {
		panic("pool: nil chunk handle")
	}
	return &a.slabs[h.class()].chunks[h.index()]
}

// Free returns a single chunk to its class free list.
func (a *Arena) Free(h Handle) {
	if h == Nil {
		return
	}
	c := a.chunk(h)
	c.runes = c.runes[:0]
	c.next = Nil
	s := &a.slabs[h.class()]
	s.free = append(s.free, h.index())
	a.live--
}

// FreeChain frees h and every chunk linked after it.
func (a *Arena) FreeChain(h Handle) {
	for h != Nil {
		next := a.chunk(h).next
		a.Free(h)
		h = next
	}
}

// Runes returns the contents of a chunk. The slice aliases arena memory.
func (a *Arena) Runes(h Handle) []rune {
	return a.chunk(h).runes
}

// Cap returns the capacity of a chunk.
func (a *Arena) Cap(h Handle) int {
	return cap(a.chunk(h).runes)
}

// Next returns the chunk linked after h.
func (a *Arena) Next(h Handle) Handle {
	return a.chunk(h).next
}

// SetNext links next after h.
func (a *Arena) SetNext(h, next Handle) {
	a.chunk(h).next = next
}

// Push appends r to the chunk and reports false when the chunk is full.
func (a *Arena) Push(h Handle, r rune) bool {
	c := a.chunk(h)
	if len(c.runes) == cap(c.runes) {
		return false
	}
	c.runes = append(c.runes, r)
	return true
}

// Tail returns the last chunk of the chain starting at h.
func (a *Arena) Tail(h Handle) Handle {
	if h == Nil {
		return Nil
	}
	for {
		next := a.chunk(h).next
		if next == Nil {
			return h
		}
		h = next
	}
}

// Len returns the number of runes held by the chain starting at h.
func (a *Arena) Len(h Handle) int {
	n := 0
	for ; h != Nil; h = a.chunk(h).next {
		n += len(a.chunk(h).runes)
	}
	return n
}

// AppendRun appends rs to the chain starting at head and returns the head,
// which is newly allocated when head is Nil.
func (a *Arena) AppendRun(head Handle, rs []rune) Handle {
	if len(rs) == 0 {
		return head
	}
	tail := a.Tail(head)
	if tail == Nil {
		head = a.Alloc(len(rs))
		tail = head
	}
	for len(rs) > 0 {
		c := a.chunk(tail)
		room := cap(c.runes) - len(c.runes)
		if room == 0 {
			next := a.Alloc(len(rs))
			a.chunk(tail).next = next
			tail = next
			continue
		}
		if room > len(rs) {
			room = len(rs)
		}
		c.runes = append(c.runes, rs[:room]...)
		rs = rs[room:]
	}
	return head
}

// PrependRun places rs in front of the chain starting at head and returns
// the new head.
func (a *Arena) PrependRun(head Handle, rs []rune) Handle {
	if len(rs) == 0 {
		return head
	}
	front := a.AppendRun(Nil, rs)
	a.chunk(a.Tail(front)).next = head
	return front
}

// TrimEnd drops the last n runes of the chain, freeing emptied chunks.
// It returns the head, which is Nil once the chain is empty.
func (a *Arena) TrimEnd(head Handle, n int) Handle {
	keep := a.Len(head) - n
	if keep <= 0 {
		a.FreeChain(head)
		return Nil
	}
	h := head
	for {
		c := a.chunk(h)
		if keep <= len(c.runes) {
			c.runes = c.runes[:keep]
			a.FreeChain(c.next)
			c.next = Nil
			return head
		}
		keep -= len(c.runes)
		h = c.next
	}
}

// Linearize appends the contents of the chain starting at h to dst.
func (a *Arena) Linearize(dst []rune, h Handle) []rune {
	for ; h != Nil; h = a.chunk(h).next {
		dst = append(dst, a.chunk(h).runes...)
	}
	return dst
}

// Reverse reverses a chain in place: the order of its chunks and the runes
// inside every chunk. A chain filled back to front reads forward afterwards.
// It returns the new head.
func (a *Arena) Reverse(head Handle) Handle {
	prev := Nil
	for h := head; h != Nil; {
		c := a.chunk(h)
		for i, j := 0, len(c.runes)-1; i < j; i, j = i+1, j-1 {
			c.runes[i], c.runes[j] = c.runes[j], c.runes[i]
		}
		next := c.next
		c.next = prev
		prev = h
		h = next
	}
	return prev
}
