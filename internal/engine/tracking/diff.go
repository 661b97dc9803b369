package tracking

// DiffOptions configures diff computation.
type DiffOptions struct {
	// MaxEditDistance bounds the Myers search. When the edit distance of the
	// trimmed middle exceeds it, the middle is reported as one deletion
	// followed by one insertion. Zero means DefaultMaxEditDistance, a
	// negative value disables the bound.
	MaxEditDistance int
}

// DefaultMaxEditDistance is the default bound of the Myers search. The trace
// kept for backtracking grows with its square.
const DefaultMaxEditDistance = 2048

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{MaxEditDistance: DefaultMaxEditDistance}
}

// DiffType indicates the type of a diff run.
type DiffType uint8

const (
	// DiffSame indicates codepoints present in both sequences.
	DiffSame DiffType = iota

	// DiffInsert indicates codepoints only present in the new sequence.
	DiffInsert

	// DiffDelete indicates codepoints only present in the old sequence.
	DiffDelete
)

// String returns a human-readable representation of the diff type.
func (dt DiffType) String() string {
	switch dt {
	case DiffSame:
		return "same"
	case DiffInsert:
		return "insert"
	case DiffDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// DiffOp is one run of an edit script. Runs alias the diffed sequences.
type DiffOp struct {
	Type DiffType
	Runs []rune
}

// Diff computes an edit script turning before into after, with adjacent
// operations of the same type merged into one run.
func Diff(before, after []rune) []DiffOp {
	return DiffWithOptions(before, after, DefaultDiffOptions())
}

// DiffWithOptions is Diff with explicit options.
func DiffWithOptions(before, after []rune, opts DiffOptions) []DiffOp {
	prefix := commonPrefix(before, after)
	suffix := commonSuffix(before[prefix:], after[prefix:])
	a := before[prefix : len(before)-suffix]
	b := after[prefix : len(after)-suffix]

	var ops []DiffOp
	if prefix > 0 {
		ops = append(ops, DiffOp{Type: DiffSame, Runs: before[:prefix]})
	}

	limit := opts.MaxEditDistance
	if limit == 0 {
		limit = DefaultMaxEditDistance
	}
	if script, ok := myersDiff(a, b, limit); ok {
		ops = appendScript(ops, a, b, script)
	} else {
		tracer().Debugf("diff: edit distance above %d, reporting %d/%d codepoints coarsely",
			limit, len(a), len(b))
		ops = appendOp(ops, DiffDelete, a)
		ops = appendOp(ops, DiffInsert, b)
	}

	if suffix > 0 {
		ops = appendOp(ops, DiffSame, before[len(before)-suffix:])
	}
	return ops
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// appendOp appends a run, merging it into the last op of the same type.
func appendOp(ops []DiffOp, t DiffType, runs []rune) []DiffOp {
	if len(runs) == 0 {
		return ops
	}
	if n := len(ops); n > 0 && ops[n-1].Type == t {
		last := &ops[n-1]
		// Runs of one type produced by one script are contiguous slices.
		if cap(last.Runs) > len(last.Runs) && &last.Runs[:len(last.Runs)+1][len(last.Runs)] == &runs[0] {
			last.Runs = last.Runs[:len(last.Runs)+len(runs)]
			return ops
		}
		merged := make([]rune, 0, len(last.Runs)+len(runs))
		merged = append(merged, last.Runs...)
		last.Runs = append(merged, runs...)
		return ops
	}
	return append(ops, DiffOp{Type: t, Runs: runs})
}

// editOp represents a single edit operation in the diff.
type editOp struct {
	op       DiffType
	oldIndex int
	newIndex int
}

// appendScript converts a per-codepoint script into merged runs.
func appendScript(ops []DiffOp, a, b []rune, script []editOp) []DiffOp {
	for _, e := range script {
		switch e.op {
		case DiffSame:
			ops = appendOp(ops, DiffSame, a[e.oldIndex:e.oldIndex+1])
		case DiffDelete:
			ops = appendOp(ops, DiffDelete, a[e.oldIndex:e.oldIndex+1])
		case DiffInsert:
			ops = appendOp(ops, DiffInsert, b[e.newIndex:e.newIndex+1])
		}
	}
	return ops
}

// myersDiff implements the Myers diff algorithm. It reports false when the
// edit distance exceeds limit (limit < 0 means unbounded).
func myersDiff(a, b []rune, limit int) ([]editOp, bool) {
	n := len(a)
	m := len(b)

	// Handle trivial cases
	if n == 0 && m == 0 {
		return nil, true
	}
	if n == 0 {
		ops := make([]editOp, m)
		for i := 0; i < m; i++ {
			ops[i] = editOp{op: DiffInsert, newIndex: i}
		}
		return ops, true
	}
	if m == 0 {
		ops := make([]editOp, n)
		for i := 0; i < n; i++ {
			ops[i] = editOp{op: DiffDelete, oldIndex: i}
		}
		return ops, true
	}

	maxD := n + m
	if limit >= 0 && limit < maxD {
		maxD = limit
	}
	if d := n - m; d > maxD || -d > maxD {
		// The length difference alone exceeds the bound.
		return nil, false
	}
	offset := maxD + 1 // V[-(maxD+1)..maxD+1] maps to slice[0..2*offset]
	v := make([]int, 2*offset+1)

	// trace[d] holds V[-d..d] as it was before step d.
	var trace [][]int

	for d := 0; d <= maxD; d++ {
		snap := make([]int, 2*d+1)
		copy(snap, v[offset-d:offset+d+1])
		trace = append(trace, snap)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k

			// Extend diagonal (equal elements)
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				return backtrack(trace, d, n, m), true
			}
		}
	}
	return nil, false
}

// backtrack reconstructs the edit script that reached (n, m) at step d.
func backtrack(trace [][]int, d, n, m int) []editOp {
	x, y := n, m
	var ops []editOp

	for ; d >= 0; d-- {
		k := x - y
		if d == 0 {
			for x > 0 && y > 0 {
				x--
				y--
				ops = append(ops, editOp{op: DiffSame, oldIndex: x, newIndex: y})
			}
			break
		}

		// trace[d] is V before step d, i.e. the result of step d-1,
		// indexed from -d.
		v := trace[d]
		at := func(i int) int { return v[i+d] }

		var prevK int
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		// Walk back diagonals (equal elements)
		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, editOp{op: DiffSame, oldIndex: x, newIndex: y})
		}
		if x > prevX {
			x--
			ops = append(ops, editOp{op: DiffDelete, oldIndex: x})
		} else if y > prevY {
			y--
			ops = append(ops, editOp{op: DiffInsert, newIndex: y})
		}
	}

	// Reverse the ops (we built them backwards)
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
