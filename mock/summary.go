package mock

import (
	"context"
	"io"

	"github.com/kdr/tldr"
)

var _ tldr.SummaryService = (*SummaryService)(nil)

// SummaryService is a mock implementation of tldr.SummaryService.
type SummaryService struct {
	PrepareFn func(ctx context.Context, req tldr.SummaryRequest) (*tldr.Article, error)
	StreamFn  func(ctx context.Context, w io.Writer, article *tldr.Article) (int64, error)
}

func (s *SummaryService) Prepare(ctx context.Context, req tldr.SummaryRequest) (*tldr.Article, error) {
	return s.PrepareFn(ctx, req)
}

func (s *SummaryService) Stream(ctx context.Context, w io.Writer, article *tldr.Article) (int64, error) {
	return s.StreamFn(ctx, w, article)
}
