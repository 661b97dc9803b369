package engine

import (
	"strings"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/tracking"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithTabSize sets the tab stop interval for visual columns.
func WithTabSize(size int) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithTabSize(size))
	}
}

// WithLineEnding sets the line ending style used when writing text out.
func WithLineEnding(ending LineEnding) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithLineEnding(ending))
	}
}

// WithMaxLineLength caps the codepoints in a single line.
func WithMaxLineLength(n int) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithMaxLineLength(n))
	}
}

// WithMaxLines caps the number of lines.
func WithMaxLines(n int) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithMaxLines(n))
	}
}

// WithEastAsianWidth counts ambiguous-width codepoints as two columns.
func WithEastAsianWidth(enabled bool) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithEastAsianWidth(enabled))
	}
}

// WithNormalizeLineEndings makes loads break lines at CRLF and lone CR.
func WithNormalizeLineEndings(enabled bool) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithNormalizeLineEndings(enabled))
	}
}

// WithStripBOM makes loads drop a leading byte order mark.
func WithStripBOM(enabled bool) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithStripBOM(enabled))
	}
}

// WithLineIndex attaches an index mirroring the per-line byte counts.
func WithLineIndex(idx buffer.LineIndex) Option {
	return func(e *Engine) {
		e.bufOpts = append(e.bufOpts, buffer.WithLineIndex(idx))
	}
}

// WithHistory enables or disables undo recording. It is enabled by default.
func WithHistory(enabled bool) Option {
	return func(e *Engine) {
		e.recording = enabled
	}
}

// WithHistoryCapacity sets the maximum number of undo groups.
func WithHistoryCapacity(groups int) Option {
	return func(e *Engine) {
		e.histOpts = append(e.histOpts, history.WithCapacity(groups))
	}
}

// WithParser attaches an incremental parser.
func WithParser(p tracking.Parser) Option {
	return func(e *Engine) {
		e.notifyOpts = append(e.notifyOpts, tracking.WithParser(p))
	}
}

// WithMarkTracker attaches a mark tracker.
func WithMarkTracker(m tracking.MarkTracker) Option {
	return func(e *Engine) {
		e.notifyOpts = append(e.notifyOpts, tracking.WithMarkTracker(m))
	}
}

// WithDiffOptions tunes the diff replayed into the mark tracker.
func WithDiffOptions(opts tracking.DiffOptions) Option {
	return func(e *Engine) {
		e.notifyOpts = append(e.notifyOpts, tracking.WithDiffOptions(opts))
	}
}

// WithRecentEdits sets how many edit descriptions RecentEdits retains.
func WithRecentEdits(count int) Option {
	return func(e *Engine) {
		e.notifyOpts = append(e.notifyOpts, tracking.WithRecentEdits(count))
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly. Loading is still allowed.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// ParseLineEnding maps "lf", "crlf" or "cr" to a LineEnding. Anything else
// is LF.
func ParseLineEnding(s string) LineEnding {
	switch strings.ToLower(s) {
	case "crlf":
		return LineEndingCRLF
	case "cr":
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// FromConfig converts the editor and history sections of cfg into options.
func FromConfig(cfg config.Config) []Option {
	ed := cfg.Editor
	return []Option{
		WithTabSize(ed.TabSize),
		WithMaxLineLength(ed.MaxLineLength),
		WithMaxLines(ed.MaxLines),
		WithEastAsianWidth(ed.EastAsianWidth),
		WithLineEnding(ParseLineEnding(ed.LineEnding)),
		WithNormalizeLineEndings(ed.NormalizeLineEndings),
		WithStripBOM(ed.StripBOM),
		WithHistory(cfg.History.Enabled),
		WithHistoryCapacity(cfg.History.Capacity),
	}
}
