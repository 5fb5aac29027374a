package tldr

import (
	"context"
	"io"
)

// Article is a fetched and extracted page, ready for summary generation.
type Article struct {
	URL     string
	Profile LengthProfile
	Text    string

	// Metadata is nil when the page head could not be read.
	Metadata *ArticleMetadata
}

// SummaryService turns article URLs into summary streams.
type SummaryService interface {
	// Prepare validates req, fetches the page, and extracts its text and
	// metadata. Every error is reported before any output is produced.
	Prepare(ctx context.Context, req SummaryRequest) (*Article, error)

	// Stream generates the summary of article and writes it to w in the
	// format produced by Compose. It returns the number of bytes written.
	Stream(ctx context.Context, w io.Writer, article *Article) (int64, error)
}
