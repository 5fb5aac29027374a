package mock

import (
	"context"
	"iter"

	"github.com/kdr/tldr"
)

var _ tldr.Generator = (*Generator)(nil)

// Generator is a mock implementation of tldr.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error]
}

func (g *Generator) Generate(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
	return g.GenerateFn(ctx, req)
}

// Fragments returns a sequence that yields each fragment in order and then
// err, if err is non-nil.
func Fragments(err error, fragments ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}
