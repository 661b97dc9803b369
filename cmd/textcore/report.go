package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// report prints aligned "name: value" lines, coloured on a terminal.
type report struct {
	w     io.Writer
	key   *color.Color
	title *color.Color
	warn  *color.Color
}

func newReport(w io.Writer, colored bool) *report {
	r := &report{
		w:     w,
		key:   color.New(color.FgCyan),
		title: color.New(color.Bold),
		warn:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{r.key, r.title, r.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *report) heading(format string, args ...any) {
	fmt.Fprintln(r.w, r.title.Sprintf(format, args...))
}

func (r *report) field(name string, value any) {
	fmt.Fprintf(r.w, "  %s %v\n", r.key.Sprintf("%-18s", name+":"), value)
}

func (r *report) warning(format string, args ...any) {
	fmt.Fprintln(r.w, r.warn.Sprintf(format, args...))
}

func (r *report) text(s string) {
	fmt.Fprintln(r.w, s)
}
