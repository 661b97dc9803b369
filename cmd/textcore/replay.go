package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/marks"
)

// Script is a YAML edit script:
//
//	steps:
//	  - mark: {kind: bp, at: [1, 0]}
//	  - insert: {at: [0, 0], text: "// header\n"}
//	  - boundary: true
//	  - replace: {from: [1, 4], to: [1, 8], text: "run"}
//	  - batch:
//	      - remove: {from: [0, 0], to: [1, 0]}
//	      - insert: {at: [0, 0], text: "x"}
//	  - undo: 1
//	  - redo: 1
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one action of a script. Exactly one field is set.
type Step struct {
	Insert   *InsertStep `yaml:"insert,omitempty"`
	Remove   *RangeStep  `yaml:"remove,omitempty"`
	Replace  *RangeStep  `yaml:"replace,omitempty"`
	Undo     int         `yaml:"undo,omitempty"`
	Redo     int         `yaml:"redo,omitempty"`
	Boundary bool        `yaml:"boundary,omitempty"`
	Batch    []Step      `yaml:"batch,omitempty"`
	Mark     *MarkStep   `yaml:"mark,omitempty"`
}

// Point is a [line, column] pair.
type Point []int

func (p Point) position() (engine.Position, error) {
	if len(p) != 2 {
		return engine.NullPosition, fmt.Errorf("point %v: want [line, column]", []int(p))
	}
	return engine.Pos(p[0], p[1]), nil
}

// InsertStep inserts Text at At.
type InsertStep struct {
	At   Point  `yaml:"at"`
	Text string `yaml:"text"`
}

// RangeStep addresses [From, To). Text is the replacement for replace steps.
type RangeStep struct {
	From Point  `yaml:"from"`
	To   Point  `yaml:"to"`
	Text string `yaml:"text,omitempty"`
}

func (s *RangeStep) positions() (engine.Position, engine.Position, error) {
	from, err := s.From.position()
	if err != nil {
		return from, from, err
	}
	to, err := s.To.position()
	return from, to, err
}

// MarkStep places a mark of Kind at At. Gravity is "left" or "right".
type MarkStep struct {
	Kind    string `yaml:"kind"`
	At      Point  `yaml:"at"`
	Gravity string `yaml:"gravity,omitempty"`
}

// ErrBadStep indicates a step with no action or more than one.
var ErrBadStep = errors.New("step must set exactly one action")

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Insert != nil, s.Remove != nil, s.Replace != nil,
		s.Undo > 0, s.Redo > 0, s.Boundary, s.Batch != nil, s.Mark != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// ParseScript decodes a script and checks the shape of every step.
func ParseScript(r io.Reader) (*Script, error) {
	var sc Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := checkSteps(sc.Steps, "steps"); err != nil {
		return nil, err
	}
	return &sc, nil
}

func checkSteps(steps []Step, path string) error {
	for i, s := range steps {
		where := fmt.Sprintf("%s[%d]", path, i)
		if s.actions() != 1 {
			return fmt.Errorf("%s: %w", where, ErrBadStep)
		}
		if err := checkSteps(s.Batch, where+".batch"); err != nil {
			return err
		}
	}
	return nil
}

// Player runs a script against an engine with an attached mark tracker.
type Player struct {
	e     *engine.Engine
	marks *marks.Tracker
}

// NewPlayer attaches a fresh mark tracker to e.
func NewPlayer(e *engine.Engine) *Player {
	p := &Player{e: e, marks: marks.NewTracker()}
	e.SetMarkTracker(p.marks)
	return p
}

// Run applies every step in order and stops at the first failure.
func (p *Player) Run(steps []Step) error {
	for i, s := range steps {
		if err := p.step(s); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (p *Player) step(s Step) error {
	switch {
	case s.Insert != nil:
		at, err := s.Insert.At.position()
		if err != nil {
			return err
		}
		_, err = p.e.InsertString(at, s.Insert.Text)
		return err
	case s.Remove != nil:
		from, to, err := s.Remove.positions()
		if err != nil {
			return err
		}
		return p.e.Remove(from, to)
	case s.Replace != nil:
		from, to, err := s.Replace.positions()
		if err != nil {
			return err
		}
		_, err = p.e.ReplaceString(from, to, s.Replace.Text)
		return err
	case s.Undo > 0:
		for i := 0; i < s.Undo; i++ {
			p.e.Undo()
		}
	case s.Redo > 0:
		for i := 0; i < s.Redo; i++ {
			p.e.Redo()
		}
	case s.Boundary:
		p.e.BreakUndoGroup()
	case s.Batch != nil:
		return p.e.Batch(func() error {
			return p.Run(s.Batch)
		})
	case s.Mark != nil:
		at, err := s.Mark.At.position()
		if err != nil {
			return err
		}
		if !p.e.Valid(at) {
			return fmt.Errorf("mark at %s: %w", at, engine.ErrOutOfRange)
		}
		g := marks.Right
		if s.Mark.Gravity == "left" {
			g = marks.Left
		}
		p.marks.InsertWithGravity(marks.Kind(s.Mark.Kind), at, g)
	}
	return nil
}

// Marks returns the live marks in position order.
func (p *Player) Marks() []*marks.Mark {
	return p.marks.Marks("")
}

func newReplayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay FILE SCRIPT",
		Short: "Apply a YAML edit script and print the result",
		Long: `Load FILE, apply the steps of the YAML edit SCRIPT (insert, remove, replace,
undo, redo, boundary, batch, mark) and print the resulting text, the undo and
redo depths and the final position of every mark.`,
		Example: `  textcore replay main.go edits.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.openEngine(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			sc, err := ParseScript(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			p := NewPlayer(e)
			runErr := p.Run(sc.Steps)

			r := newReport(cmd.OutOrStdout(), a.color)
			r.heading("%s after %d steps", args[0], len(sc.Steps))
			r.text(e.String())
			r.heading("history")
			r.field("undo depth", e.UndoDepth())
			r.field("redo depth", e.RedoDepth())
			st := e.Stats()
			r.field("edits", st.Edits)
			r.field("mark sub-edits", st.SubEdits)
			if ms := p.Marks(); len(ms) > 0 {
				r.heading("marks")
				for _, m := range ms {
					r.field(string(m.Kind()), m.Pos())
				}
			}
			if runErr != nil {
				r.warning("stopped: %v", runErr)
				return runErr
			}
			return nil
		},
	}
}
