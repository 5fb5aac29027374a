package tldr

import "strings"

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, when the extractor finds one.
	Title string

	// Text is the plain-text rendering of the page: no markup,
	// whitespace collapsed to single spaces and trimmed.
	Text string

	// ContentHTML is the main content as clean HTML. Extractors that only
	// strip tags leave it empty.
	ContentHTML string
}

// Extractor reduces an HTML page to text suitable for summarization.
type Extractor interface {
	// Extract processes raw HTML and returns the page text.
	Extract(html string) (*ExtractResult, error)
}

// CollapseWhitespace replaces every run of whitespace in s with a single
// space and trims both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
