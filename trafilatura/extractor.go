// Package trafilatura implements tldr.Extractor with go-trafilatura, the
// extractor of choice (TLDR_EXTRACTOR=trafilatura) for news and blog pages
// where readability misses the body.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/kdr/tldr"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements tldr.Extractor at compile time.
var _ tldr.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Fallback extraction is enabled so pages that trafilatura's own heuristics
// reject are retried with readability and dom-distiller before giving up.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Text is the
// single-spaced rendering handed to the summary generator; Title comes from
// trafilatura's metadata pass and fills in when the page head has none.
func (e *Extractor) Extract(rawHTML string) (*tldr.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, tldr.Errorf(tldr.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &tldr.ExtractResult{
		Title:       result.Metadata.Title,
		Text:        tldr.CollapseWhitespace(result.ContentText),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
