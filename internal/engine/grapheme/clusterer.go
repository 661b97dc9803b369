// Package grapheme detects extended grapheme cluster boundaries.
//
// A Clusterer is a small state machine fed one codepoint at a time. It
// answers whether a boundary falls before the codepoint just fed, which is
// all the line iterators and coordinate conversions need: forward cluster
// detection is a single pass with constant state.
package grapheme

// State is the clusterer's memory of the codepoints fed since the last
// boundary that still matters for the next decision.
type State uint8

// Clusterer states.
const (
	StateStart State = iota
	StateAny
	StateCR
	StateControlLF
	StateL
	StateLVV
	StateLVTT
	StatePrepend
	StateExtPict
	StateExtPictZWJ
	StateRIOdd
	StateRIEven
)

// Clusterer reports grapheme cluster boundaries. The zero value is ready
// to use.
type Clusterer struct {
	state State
}

// Reset returns the clusterer to its initial state.
func (c *Clusterer) Reset() {
	c.state = StateStart
}

// State returns the current state.
func (c *Clusterer) State() State {
	return c.state
}

// Feed consumes r and reports whether a cluster boundary lies before it.
// The first codepoint after a Reset always starts a cluster.
func (c *Clusterer) Feed(r rune) bool {
	p := Property(r)
	brk := c.breaks(p)
	c.state = next(c.state, p, brk)
	return brk
}

func (c *Clusterer) breaks(p Prop) bool {
	s := c.state
	switch {
	case s == StateStart:
		return true
	case s == StateCR && p == PropLF: // GB3
		return false
	case s == StateCR, s == StateControlLF: // GB4
		return true
	case p == PropCR, p == PropLF, p == PropControl: // GB5
		return true
	case s == StateL && (p == PropL || p == PropV || p == PropLV || p == PropLVT): // GB6
		return false
	case s == StateLVV && (p == PropV || p == PropT): // GB7
		return false
	case s == StateLVTT && p == PropT: // GB8
		return false
	case p == PropExtend, p == PropZWJ, p == PropSpacingMark: // GB9, GB9a
		return false
	case s == StatePrepend: // GB9b
		return false
	case s == StateExtPictZWJ && p == PropExtendedPictographic: // GB11
		return false
	case s == StateRIOdd && p == PropRegionalIndicator: // GB12, GB13
		return false
	}
	return true
}

func next(s State, p Prop, brk bool) State {
	switch p {
	case PropCR:
		return StateCR
	case PropLF, PropControl:
		return StateControlLF
	case PropL:
		return StateL
	case PropV, PropLV:
		return StateLVV
	case PropT, PropLVT:
		return StateLVTT
	case PropPrepend:
		return StatePrepend
	case PropExtendedPictographic:
		return StateExtPict
	case PropExtend:
		if s == StateExtPict {
			return StateExtPict
		}
	case PropZWJ:
		if s == StateExtPict {
			return StateExtPictZWJ
		}
	case PropRegionalIndicator:
		if s == StateRIOdd && !brk {
			return StateRIEven
		}
		return StateRIOdd
	}
	return StateAny
}

// Boundaries returns the index of the first codepoint of every cluster in rs.
func Boundaries(rs []rune) []int {
	var c Clusterer
	var out []int
	for i, r := range rs {
		if c.Feed(r) {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of clusters in rs.
func Count(rs []rune) int {
	var c Clusterer
	n := 0
	for _, r := range rs {
		if c.Feed(r) {
			n++
		}
	}
	return n
}

// Next returns the length in codepoints of the cluster starting at rs[0].
func Next(rs []rune) int {
	if len(rs) == 0 {
		return 0
	}
	var c Clusterer
	c.Feed(rs[0])
	for i := 1; i < len(rs); i++ {
		if c.Feed(rs[i]) {
			return i
		}
	}
	return len(rs)
}

// DefiniteBreak reports whether a cluster boundary lies between prev and cur
// whatever precedes prev. Backward scans can stop at such a pair.
func DefiniteBreak(prev, cur rune) bool {
	pp, pc := Property(prev), Property(cur)
	switch {
	case pp == PropCR:
		return pc != PropLF
	case pp == PropLF, pp == PropControl:
		return true
	case pc == PropCR, pc == PropLF, pc == PropControl:
		return true
	}
	return plain(pp) && plain(pc)
}

// plain properties reset the clusterer to a state that depends on nothing
// before them.
func plain(p Prop) bool {
	return p == PropOther || p == PropExtendedPictographic
}
