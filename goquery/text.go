// Package goquery implements tldr extraction on top of goquery: a tag
// stripping text extractor and a head-tag metadata extractor.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kdr/tldr"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements tldr.Extractor at compile time.
var _ tldr.Extractor = (*TextExtractor)(nil)

// strippedElements never contribute text.
const strippedElements = "script, style, noscript, iframe"

// blockElements are separated from their neighbours by a space so that
// "<p>one</p><p>two</p>" reads "one two" rather than "onetwo".
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// TextExtractor renders the body of a page as plain text.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract removes script, style, noscript and iframe elements, strips every
// remaining tag, and collapses whitespace.
func (e *TextExtractor) Extract(rawHTML string) (*tldr.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, tldr.Errorf(tldr.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, tldr.Errorf(tldr.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(strippedElements).Remove()

	var sb strings.Builder
	for _, n := range doc.Find("body").Nodes {
		writeText(&sb, n)
	}

	return &tldr.ExtractResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Text:  tldr.CollapseWhitespace(sb.String()),
	}, nil
}

// writeText appends the text content of n to sb.
func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if block {
		sb.WriteByte(' ')
	}
}
