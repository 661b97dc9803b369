package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/engine"
)

// Stats summarizes a loaded text.
type Stats struct {
	Lines      int
	Bytes      int
	Codepoints int
	Graphemes  int
	WidestLine int // visual columns
	WidestAt   int // line index of the widest line
	LineEnding engine.LineEnding
}

// collectStats measures every line of e.
func collectStats(e *engine.Engine) Stats {
	s := Stats{
		Lines:      e.LineCount(),
		Bytes:      e.Len(),
		Codepoints: e.LineCount() - 1,
		LineEnding: e.LineEnding(),
	}
	for y := 0; y < e.LineCount(); y++ {
		n := e.LineLen(y)
		s.Codepoints += n
		s.Graphemes += e.GraphemeIndex(y, n, engine.Strict)
		if w := e.VisualColumn(y, n, engine.Strict); w > s.WidestLine {
			s.WidestLine, s.WidestAt = w, y
		}
	}
	return s
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Report line, byte, codepoint and grapheme counts",
		Example: `  textcore stats main.go
  textcore stats --config textcore.toml notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEngine(args[0], engine.WithReadOnly(), engine.WithHistory(false))
			if err != nil {
				return err
			}
			s := collectStats(e)

			r := newReport(cmd.OutOrStdout(), a.color)
			r.heading("%s", args[0])
			r.field("engine", e.ID())
			r.field("lines", s.Lines)
			r.field("bytes", s.Bytes)
			r.field("codepoints", s.Codepoints)
			r.field("graphemes", s.Graphemes)
			r.field("widest line", s.WidestAt+1)
			r.field("widest columns", s.WidestLine)
			r.field("line ending", s.LineEnding)
			return nil
		},
	}
}
