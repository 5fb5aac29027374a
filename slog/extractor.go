package slog

import (
	"log/slog"
	"time"

	"github.com/kdr/tldr"
)

// Ensure LoggingExtractor implements tldr.Extractor.
var _ tldr.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   tldr.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next tldr.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(html string) (result *tldr.ExtractResult, err error) {
	defer func(begin time.Time) {
		chars := 0
		if result != nil {
			chars = len(result.Text)
		}
		e.logger.Debug("extract",
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
