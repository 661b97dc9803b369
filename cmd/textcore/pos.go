package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/engine"
)

// Coordinates holds every coordinate of one position.
type Coordinates struct {
	Pos        engine.Position
	ByteColumn int
	Grapheme   int
	Visual     int
	Offset     int
}

// convert computes the coordinates of p and checks that each conversion
// maps back onto the codepoint column.
func convert(e *engine.Engine, p engine.Position) (Coordinates, error) {
	c := Coordinates{
		Pos:        p,
		ByteColumn: e.ByteOffset(p.Line, p.Col, engine.Strict),
		Grapheme:   e.GraphemeIndex(p.Line, p.Col, engine.Strict),
		Visual:     e.VisualColumn(p.Line, p.Col, engine.Strict),
		Offset:     e.Offset(p, engine.Strict),
	}
	if back := e.ColumnFromByte(p.Line, c.ByteColumn, engine.Strict); back != p.Col {
		return c, fmt.Errorf("byte column %d maps back to column %d", c.ByteColumn, back)
	}
	if back := e.PositionFromOffset(c.Offset, engine.Strict); back != p {
		return c, fmt.Errorf("offset %d maps back to %s", c.Offset, back)
	}
	return c, nil
}

func newPosCommand(a *app) *cobra.Command {
	var line, col int
	cmd := &cobra.Command{
		Use:   "pos FILE",
		Short: "Show every coordinate of a position",
		Long: `Show the byte column, grapheme index, visual column and byte offset of a
position given as a zero-based line and codepoint column.`,
		Example: `  textcore pos main.go --line 10 --col 4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEngine(args[0], engine.WithReadOnly(), engine.WithHistory(false))
			if err != nil {
				return err
			}
			p := engine.Pos(line, col)
			if !e.Valid(p) {
				return fmt.Errorf("position %s: %w", p, engine.ErrOutOfRange)
			}

			c, err := convert(e, p)
			r := newReport(cmd.OutOrStdout(), a.color)
			r.heading("%s at %s", args[0], p)
			r.field("byte column", c.ByteColumn)
			r.field("grapheme index", c.Grapheme)
			r.field("visual column", c.Visual)
			r.field("byte offset", c.Offset)
			r.field("tab size", e.TabSize())
			if err != nil {
				r.warning("round trip failed: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 0, "Zero-based line")
	cmd.Flags().IntVar(&col, "col", 0, "Zero-based codepoint column")
	return cmd
}
