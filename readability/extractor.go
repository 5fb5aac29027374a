// Package readability implements tldr.Extractor with go-readability, keeping
// only the main article and dropping navigation, sidebars and footers.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/kdr/tldr"
)

// Ensure Extractor implements tldr.Extractor at compile time.
var _ tldr.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
// It is selected with TLDR_EXTRACTOR=readability, and it also feeds the
// "markdown" mode through its ContentHTML. Menus and comment threads are
// dropped before the text reaches the summary generator.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article title, its text with
// whitespace collapsed for the generator prompt, and the cleaned article HTML.
// A page readability cannot score yields an error; the caller reports it as
// an internal failure rather than summarizing navigation chrome.
func (e *Extractor) Extract(rawHTML string) (*tldr.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, tldr.Errorf(tldr.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &tldr.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		Text:        tldr.CollapseWhitespace(article.TextContent),
		ContentHTML: article.Content,
	}, nil
}
