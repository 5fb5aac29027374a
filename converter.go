package tldr

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., ExtractResult.ContentHTML).
	Convert(html string) (string, error)
}
