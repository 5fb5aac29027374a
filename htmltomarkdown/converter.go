// Package htmltomarkdown renders extracted article HTML as Markdown, which
// keeps headings, lists and emphasis visible to the summary generator.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/kdr/tldr"
)

// Ensure Converter implements tldr.Converter at compile time.
var _ tldr.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", tldr.Errorf(tldr.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}

// Ensure Extractor implements tldr.Extractor at compile time.
var _ tldr.Extractor = (*Extractor)(nil)

// Extractor replaces the plain text produced by another extractor with a
// Markdown rendering of its content HTML.
type Extractor struct {
	next tldr.Extractor
	conv tldr.Converter
}

// NewExtractor wraps next. Results without content HTML keep their plain text.
func NewExtractor(next tldr.Extractor, conv tldr.Converter) *Extractor {
	return &Extractor{next: next, conv: conv}
}

// Extract delegates to the wrapped extractor and converts its content HTML.
func (e *Extractor) Extract(html string) (*tldr.ExtractResult, error) {
	result, err := e.next.Extract(html)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.ContentHTML) == "" {
		return result, nil
	}

	md, err := e.conv.Convert(result.ContentHTML)
	if err != nil {
		return nil, err
	}

	return &tldr.ExtractResult{
		Title:       result.Title,
		Text:        md,
		ContentHTML: result.ContentHTML,
	}, nil
}
