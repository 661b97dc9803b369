package syntax

import "github.com/dshills/textcore/internal/engine/tracking"

// Reader is the pull callback of a parser: the bytes from byte column col
// of row to the end of that row, newline included, or nil past the end.
type Reader interface {
	ReadAt(row, col int) []byte
}

// Pull reads the whole text through src and appends it to dst.
func Pull(dst []byte, src Reader) []byte {
	for row := 0; ; row++ {
		chunk := src.ReadAt(row, 0)
		if chunk == nil {
			return dst
		}
		dst = append(dst, chunk...)
	}
}

// Recorder is a parser collaborator that records every edit description.
// With a Reader it also re-reads the text after each edit.
type Recorder struct {
	src   Reader
	edits []tracking.InputEdit
	text  []byte
}

// NewRecorder creates a recorder. src may be nil.
func NewRecorder(src Reader) *Recorder {
	return &Recorder{src: src}
}

// Reparse records e and pulls the current text.
func (r *Recorder) Reparse(e tracking.InputEdit) {
	r.edits = append(r.edits, e)
	if r.src != nil {
		r.text = Pull(r.text[:0], r.src)
	}
	tracer().Debugf("syntax: recorded edit %s", e)
}

// Edits returns the recorded edit descriptions, oldest first.
func (r *Recorder) Edits() []tracking.InputEdit {
	return r.edits
}

// Text returns the text pulled after the latest edit.
func (r *Recorder) Text() string {
	return string(r.text)
}

// Reset drops the recorded edits.
func (r *Recorder) Reset() {
	r.edits = r.edits[:0]
	r.text = r.text[:0]
}
