//go:build tree_sitter

package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/dshills/textcore/internal/engine/tracking"
)

// TreeSitter is a parser collaborator that keeps a tree-sitter tree in step
// with the text. Each Reparse edits the old tree and parses incrementally,
// pulling content through the Reader.
type TreeSitter struct {
	parser *sitter.Parser
	tree   *sitter.Tree
	src    Reader
	err    error
}

// NewTreeSitter creates a collaborator parsing src with lang.
func NewTreeSitter(lang *sitter.Language, src Reader) *TreeSitter {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &TreeSitter{parser: p, src: src}
}

// NewGo creates a collaborator for Go source.
func NewGo(src Reader) *TreeSitter {
	return NewTreeSitter(golang.GetLanguage(), src)
}

func (t *TreeSitter) input() sitter.Input {
	return sitter.Input{
		Read: func(offset uint32, p sitter.Point) []byte {
			return t.src.ReadAt(int(p.Row), int(p.Column))
		},
		Encoding: sitter.InputEncodingUTF8,
	}
}

// Parse parses the whole text from scratch, dropping any previous tree.
func (t *TreeSitter) Parse(ctx context.Context) error {
	tree, err := t.parser.ParseInputCtx(ctx, nil, t.input())
	if err != nil {
		t.err = fmt.Errorf("syntax: parse: %w", err)
		return t.err
	}
	t.replace(tree)
	return nil
}

// Reparse applies e to the current tree and parses incrementally. Without
// a tree it parses from scratch. A failed parse keeps the previous tree and
// is reported by Err.
func (t *TreeSitter) Reparse(e tracking.InputEdit) {
	if t.tree == nil {
		_ = t.Parse(context.Background())
		return
	}
	t.tree.Edit(sitter.EditInput{
		StartIndex:  uint32(e.StartByte),
		OldEndIndex: uint32(e.OldEndByte),
		NewEndIndex: uint32(e.NewEndByte),
		StartPoint:  point(e.StartPoint),
		OldEndPoint: point(e.OldEndPoint),
		NewEndPoint: point(e.NewEndPoint),
	})
	tree, err := t.parser.ParseInputCtx(context.Background(), t.tree, t.input())
	if err != nil {
		t.err = fmt.Errorf("syntax: reparse after %s: %w", e, err)
		tracer().Errorf("%v", t.err)
		return
	}
	t.replace(tree)
}

func (t *TreeSitter) replace(tree *sitter.Tree) {
	if t.tree != nil {
		t.tree.Close()
	}
	t.tree = tree
	t.err = nil
}

func point(p tracking.Point) sitter.Point {
	return sitter.Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}

// Tree returns the current tree, or nil before the first parse.
func (t *TreeSitter) Tree() *sitter.Tree {
	return t.tree
}

// Err returns the error of the latest failed parse.
func (t *TreeSitter) Err() error {
	return t.err
}

// Close releases the tree and the parser.
func (t *TreeSitter) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
	t.parser.Close()
}
