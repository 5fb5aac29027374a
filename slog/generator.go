package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/kdr/tldr"
)

// Ensure LoggingGenerator implements tldr.Generator.
var _ tldr.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging. One line is logged when
// the sequence ends, whether it completed, failed, or was abandoned.
type LoggingGenerator struct {
	next   tldr.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next tldr.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the operation.
func (g *LoggingGenerator) Generate(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var (
			fragments int
			chars     int
			err       error
		)
		defer func(begin time.Time) {
			g.logger.Info("generate",
				"length", req.Profile.Length,
				"input_chars", len(req.Text),
				"fragments", fragments,
				"chars", chars,
				"duration", time.Since(begin),
				"err", err,
			)
		}(time.Now())

		for fragment, ferr := range g.next.Generate(ctx, req) {
			if ferr != nil {
				err = ferr
			} else {
				fragments++
				chars += len(fragment)
			}
			if !yield(fragment, ferr) {
				return
			}
		}
	}
}
