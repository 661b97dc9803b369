package buffer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func mustLoad(t *testing.T, text string, opts ...Option) *Buffer {
	t.Helper()
	b, err := NewFromString(text, opts...)
	if err != nil {
		t.Fatalf("load %q: %v", text, err)
	}
	return b
}

func lines(b *Buffer) []string {
	out := make([]string, b.LineCount())
	for y := range out {
		out[y] = string(b.Line(y))
	}
	return out
}

func equalLines(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected panic", name)
			return
		}
		err, ok := r.(*BoundsError)
		if !ok {
			t.Errorf("%s: panic value %T, want *BoundsError", name, r)
			return
		}
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: %v does not match ErrOutOfRange", name, err)
		}
	}()
	fn()
}

func TestNew(t *testing.T) {
	b := New()

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.ByteCount(0) != 1 {
		t.Errorf("expected byte count 1, got %d", b.ByteCount(0))
	}
	if err := b.CheckInvariants(); err != nil {
		t.Error(err)
	}
}

func TestLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textcore.engine")
	defer teardown()

	tests := []struct {
		name   string
		input  string
		want   []string
		ending LineEnding
	}{
		{"empty", "", []string{""}, LineEndingLF},
		{"single line", "hello", []string{"hello"}, LineEndingLF},
		{"two lines", "a\nb", []string{"a", "b"}, LineEndingLF},
		{"trailing newline", "a\n", []string{"a", ""}, LineEndingLF},
		{"crlf", "a\r\nb\r\n", []string{"a", "b", ""}, LineEndingCRLF},
		{"lone cr", "a\rb", []string{"a", "b"}, LineEndingCR},
		{"cr at end", "a\r", []string{"a", ""}, LineEndingCR},
		{"utf8 bom", "\ufeffabc", []string{"abc"}, LineEndingLF},
		{"utf16 bom", "\xff\xfeh\x00i\x00", []string{"hi"}, LineEndingLF},
		{"multibyte", "héllo\nwörld", []string{"héllo", "wörld"}, LineEndingLF},
		{"truncated sequence", "ab\xe4\xb8", []string{"ab"}, LineEndingLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustLoad(t, tt.input)
			if got := lines(b); !equalLines(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if b.LineEnding() != tt.ending {
				t.Errorf("line ending %s, want %s", b.LineEnding(), tt.ending)
			}
			if err := b.CheckInvariants(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestLoadWithoutNormalization(t *testing.T) {
	b := mustLoad(t, "a\r\nb", WithNormalizeLineEndings(false))

	if got, want := lines(b), []string{"a\r", "b"}; !equalLines(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	if b.LineEnding() != LineEndingLF {
		t.Errorf("line ending %s, want \\n", b.LineEnding())
	}
}

func TestLoadKeepsBOMWhenAsked(t *testing.T) {
	b := mustLoad(t, "\ufeffx", WithStripBOM(false))
	if got := string(b.Line(0)); got != "\ufeffx" {
		t.Errorf("got %q, want BOM kept", got)
	}
}

func TestLoadByteCounts(t *testing.T) {
	b := mustLoad(t, "héllo\nwörld")

	if b.ByteCount(0) != 7 || b.ByteCount(1) != 7 {
		t.Errorf("byte counts %d, %d, want 7, 7", b.ByteCount(0), b.ByteCount(1))
	}
	if b.Len() != len("héllo\nwörld") {
		t.Errorf("Len() = %d, want %d", b.Len(), len("héllo\nwörld"))
	}
}

func TestLoadLimitsLeaveBufferUnchanged(t *testing.T) {
	b := mustLoad(t, "keep", WithMaxLines(2), WithMaxLineLength(5))

	err := b.Load(strings.NewReader("a\nb\nc"))
	if !errors.Is(err, ErrTooManyLines) {
		t.Errorf("expected ErrTooManyLines, got %v", err)
	}
	err = b.Load(strings.NewReader("abcdef"))
	if !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}

	if b.String() != "keep" {
		t.Errorf("buffer changed to %q", b.String())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestLoadReadError(t *testing.T) {
	b := mustLoad(t, "keep")
	if err := b.Load(failingReader{}); err == nil {
		t.Fatal("expected error")
	}
	if b.String() != "keep" {
		t.Errorf("buffer changed to %q", b.String())
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"one line",
		"a\nb\n",
		"a\r\nb\r\n",
		"x\ry",
		"日本語\n😀",
	}

	for _, in := range inputs {
		b := mustLoad(t, in)
		var out bytes.Buffer
		n, err := b.WriteTo(&out)
		if err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
		if out.String() != in {
			t.Errorf("WriteTo = %q, want %q", out.String(), in)
		}
		if int(n) != len(in) {
			t.Errorf("WriteTo reported %d bytes, want %d", n, len(in))
		}
	}
}

func TestLineStore(t *testing.T) {
	idx := NewPrefixIndex()
	b := New(WithLineIndex(idx))

	b.SetLine(0, []rune("first"))
	b.AppendLine([]rune("third"))
	b.InsertLine(1, []rune("sécond"))
	b.AppendLine([]rune("fourth"))
	b.DeleteLines(3, 4)

	if got, want := lines(b), []string{"first", "sécond", "third"}; !equalLines(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if err := b.CheckInvariants(); err != nil {
		t.Fatal(err)
	}

	if idx.Lines() != b.LineCount() {
		t.Fatalf("index has %d lines, buffer %d", idx.Lines(), b.LineCount())
	}
	off := 0
	for y := 0; y < b.LineCount(); y++ {
		if got := idx.Offset(y); got != off {
			t.Errorf("index Offset(%d) = %d, want %d", y, got, off)
		}
		off += b.ByteCount(y)
	}
	if got := idx.Line(7); got != 1 {
		t.Errorf("index Line(7) = %d, want 1", got)
	}
}

func TestText(t *testing.T) {
	b := mustLoad(t, "abc\ndef\nghi")

	tests := []struct {
		start, end Position
		want       string
	}{
		{Pos(0, 0), Pos(0, 0), ""},
		{Pos(0, 1), Pos(0, 3), "bc"},
		{Pos(0, 2), Pos(1, 1), "c\nd"},
		{Pos(0, 3), Pos(2, 0), "\ndef\n"},
		{Pos(0, 0), Pos(2, 3), "abc\ndef\nghi"},
	}

	for _, tt := range tests {
		if got := string(b.Text(tt.start, tt.end)); got != tt.want {
			t.Errorf("Text(%s, %s) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestReadAt(t *testing.T) {
	b := mustLoad(t, "héllo\nworld")

	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "héllo\n"},
		{0, 3, "llo\n"},
		{1, 0, "world"},
		{1, 2, "rld"},
	}
	for _, tt := range tests {
		if got := string(b.ReadAt(tt.row, tt.col)); got != tt.want {
			t.Errorf("ReadAt(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}

	if got := b.ReadAt(1, 5); got != nil {
		t.Errorf("ReadAt at end = %q, want nil", got)
	}
	if got := b.ReadAt(2, 0); got != nil {
		t.Errorf("ReadAt past last line = %q, want nil", got)
	}
}

func TestStrictAccessPanics(t *testing.T) {
	b := mustLoad(t, "abc\ndef")

	expectPanic(t, "Line", func() { b.Line(2) })
	expectPanic(t, "LineLen", func() { b.LineLen(-1) })
	expectPanic(t, "Text", func() { b.Text(Pos(0, 0), Pos(0, 4)) })
	expectPanic(t, "Iterator", func() { b.Iterator(Pos(5, 0)) })
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		in   string
		want LineEnding
	}{
		{"no endings", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
		{"a\r\nb\nc\r\n", LineEndingCRLF},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.in); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
