package codec

import "unicode/utf8"

// Size returns the number of bytes r occupies when encoded.
// Invalid codepoints are encoded as utf8.RuneError and occupy three bytes.
func Size(r rune) int {
	switch {
	case r < 0:
		return 3
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	case r <= utf8.MaxRune:
		return 4
	default:
		return 3
	}
}

// RunesSize returns the encoded size of rs.
func RunesSize(rs []rune) int {
	n := 0
	for _, r := range rs {
		n += Size(r)
	}
	return n
}

// Encode appends the UTF-8 encoding of r to dst and returns the extended slice.
func Encode(dst []byte, r rune) []byte {
	return utf8.AppendRune(dst, r)
}

// EncodeRunes appends the UTF-8 encoding of rs to dst.
func EncodeRunes(dst []byte, rs []rune) []byte {
	for _, r := range rs {
		dst = utf8.AppendRune(dst, r)
	}
	return dst
}

// sequenceLength reports the declared length of a sequence starting with b.
// Zero means b cannot start a sequence.
func sequenceLength(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	case b < 0xF8:
		return 4
	default:
		return 0
	}
}

// Decoder is a streaming UTF-8 decoder. The zero value is ready to use.
type Decoder struct {
	buf  [utf8.UTFMax]byte
	n    int
	need int
}

// Feed pushes one byte into the decoder. It returns the decoded codepoint and
// true exactly when b completes a sequence.
func (d *Decoder) Feed(b byte) (rune, bool) {
	if d.need > 0 {
		if b&0xC0 == 0x80 {
			d.buf[d.n] = b
			d.n++
			if d.n < d.need {
				return 0, false
			}
			r, _ := utf8.DecodeRune(d.buf[:d.n])
			d.Reset()
			return r, true
		}
		// The pending sequence was interrupted; b starts over.
		d.Reset()
	}

	switch n := sequenceLength(b); n {
	case 1:
		return rune(b), true
	case 0:
		return utf8.RuneError, true
	default:
		d.buf[0] = b
		d.n = 1
		d.need = n
		return 0, false
	}
}

// Pending returns the number of bytes held by an incomplete sequence.
func (d *Decoder) Pending() int {
	return d.n
}

// Reset discards any incomplete sequence.
func (d *Decoder) Reset() {
	d.n = 0
	d.need = 0
}

// Decode appends the codepoints decoded from p to dst. A sequence left
// incomplete at the end of p is discarded.
func Decode(dst []rune, p []byte) []rune {
	var d Decoder
	for _, b := range p {
		if r, ok := d.Feed(b); ok {
			dst = append(dst, r)
		}
	}
	return dst
}
