package mock

import "github.com/kdr/tldr"

var _ tldr.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tldr.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*tldr.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*tldr.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ tldr.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of tldr.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(html, pageURL string) (*tldr.ArticleMetadata, error)
}

func (e *MetadataExtractor) ExtractMetadata(html, pageURL string) (*tldr.ArticleMetadata, error) {
	return e.ExtractMetadataFn(html, pageURL)
}
