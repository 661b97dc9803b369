package buffer

import "github.com/dshills/textcore/internal/engine/pool"

// Default limits.
const (
	DefaultTabSize       = 4
	DefaultMaxLineLength = 65536
	DefaultMaxLines      = 1 << 22
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used by WriteTo.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithTabSize sets the tab stop interval for visual columns.
func WithTabSize(size int) Option {
	return func(b *Buffer) {
		if size > 0 {
			b.tabSize = size
		}
	}
}

// WithMaxLineLength sets the maximum line length in codepoints.
func WithMaxLineLength(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxLineLength = n
		}
	}
}

// WithMaxLines sets the maximum number of lines.
func WithMaxLines(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxLines = n
		}
	}
}

// WithEastAsianWidth treats East Asian ambiguous-width codepoints as wide.
func WithEastAsianWidth(enabled bool) Option {
	return func(b *Buffer) {
		b.width.EastAsianWidth = enabled
	}
}

// WithLineIndex attaches an external index that mirrors the byte counts.
func WithLineIndex(idx LineIndex) Option {
	return func(b *Buffer) {
		b.index = idx
	}
}

// WithPool sets the pool lines are allocated from.
func WithPool(p *pool.RunePool) Option {
	return func(b *Buffer) {
		if p != nil {
			b.runes = p
		}
	}
}

// WithNormalizeLineEndings makes Load treat CRLF and lone CR as line breaks.
// When disabled, carriage returns are kept as ordinary codepoints.
func WithNormalizeLineEndings(enabled bool) Option {
	return func(b *Buffer) {
		b.normalize = enabled
	}
}

// WithStripBOM makes Load drop a leading byte order mark. A UTF-16 byte
// order mark also switches decoding to UTF-16.
func WithStripBOM(enabled bool) Option {
	return func(b *Buffer) {
		b.stripBOM = enabled
	}
}

// WithLF configures the buffer to write Unix line endings (\n).
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithCRLF configures the buffer to write Windows line endings (\r\n).
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}

// lineEndingFromCounts returns the most common line ending, preferring CRLF
// then CR on ties. Returns LineEndingLF if no line endings were seen.
func lineEndingFromCounts(lf, crlf, cr int) LineEnding {
	if crlf >= lf && crlf >= cr {
		if crlf > 0 {
			return LineEndingCRLF
		}
	}
	if cr >= lf && cr >= crlf {
		if cr > 0 {
			return LineEndingCR
		}
	}
	return LineEndingLF
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlf++
			i += 2
		} else if text[i] == '\r' {
			cr++
			i++
		} else if text[i] == '\n' {
			lf++
			i++
		} else {
			i++
		}
	}
	return lineEndingFromCounts(lf, crlf, cr)
}
