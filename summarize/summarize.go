// Package summarize orchestrates a summary request: it fetches the article,
// reduces it to text and metadata, and streams the generated summary.
package summarize

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kdr/tldr"
)

// Ensure Service implements tldr.SummaryService at compile time.
var _ tldr.SummaryService = (*Service)(nil)

// Service turns article URLs into summary streams.
type Service struct {
	Fetcher   tldr.Fetcher
	Extractor tldr.Extractor
	Metadata  tldr.MetadataExtractor
	Generator tldr.Generator
	Logger    *slog.Logger
}

// Prepare validates req, fetches the page, and extracts its text and
// metadata. No generation happens here, so every error returned is reported
// before a response body is started.
//
// Fetch failures are returned as EFETCH "Failed to fetch article" wrapping
// the cause. Extraction failures, including a page with no text, are
// EINTERNAL and never reach the generator. A metadata failure is logged and
// the record omitted.
func (s *Service) Prepare(ctx context.Context, req tldr.SummaryRequest) (*tldr.Article, error) {
	if req.Length == "" {
		req.Length = tldr.DefaultLength
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	profile, err := req.Length.Profile()
	if err != nil {
		return nil, err
	}

	html, err := s.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tldr.Errorf(tldr.EFETCH, "Failed to fetch article"), err)
	}

	// Extraction failures are internal: the page was fetched, so the
	// client gets the generic message and the cause stays in the log.
	result, err := s.Extractor.Extract(html)
	if err != nil {
		return nil, tldr.Errorf(tldr.EINTERNAL, "extract %s: %v", req.URL, err)
	}
	if result.Text == "" {
		return nil, tldr.Errorf(tldr.EINTERNAL, "no article text at %s", req.URL)
	}

	article := &tldr.Article{
		URL:     req.URL,
		Profile: profile,
		Text:    result.Text,
	}

	if s.Metadata != nil {
		meta, err := s.Metadata.ExtractMetadata(html, req.URL)
		if err != nil {
			s.logger().Warn("metadata extraction failed", "url", req.URL, "err", err)
		} else {
			meta.EstimatedReadTime = tldr.EstimateReadTime(result.Text)
			if meta.Title == "" {
				meta.Title = result.Title
			}
			article.Metadata = meta
		}
	}

	return article, nil
}

// Stream generates the summary of article and writes it to w as described
// by tldr.Compose. It returns the number of bytes written; when that is zero
// the caller may still report the error on its own terms.
func (s *Service) Stream(ctx context.Context, w io.Writer, article *tldr.Article) (int64, error) {
	fragments := s.Generator.Generate(ctx, tldr.GenerateRequest{
		Text:    article.Text,
		Profile: article.Profile,
	})
	return tldr.Compose(w, article.Metadata, fragments)
}

// Summarize runs Prepare and Stream in sequence.
func (s *Service) Summarize(ctx context.Context, w io.Writer, req tldr.SummaryRequest) (int64, error) {
	article, err := s.Prepare(ctx, req)
	if err != nil {
		return 0, err
	}
	return s.Stream(ctx, w, article)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
