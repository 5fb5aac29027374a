package tldr

import (
	"net/url"
	"strconv"
	"strings"
)

// WordsPerMinute is the reading speed used to estimate read time.
const WordsPerMinute = 200

// ArticleMetadata holds page attributes extracted from document head tags.
// Every field except URL is optional and omitted from JSON when empty.
type ArticleMetadata struct {
	URL               string `json:"url"`
	Title             string `json:"title,omitempty"`
	Description       string `json:"description,omitempty"`
	Image             string `json:"image,omitempty"`
	SiteName          string `json:"siteName,omitempty"`
	PublishedTime     string `json:"publishedTime,omitempty"`
	Author            string `json:"author,omitempty"`
	EstimatedReadTime string `json:"estimatedReadTime,omitempty"`
}

// Domain returns the article host without a leading "www.".
// Returns an empty string if URL cannot be parsed.
func (m *ArticleMetadata) Domain() string {
	u, err := url.Parse(m.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// MetadataExtractor reads article metadata from the head of an HTML page.
type MetadataExtractor interface {
	// ExtractMetadata parses rawHTML and returns the metadata record for pageURL.
	// Relative image URLs are resolved against pageURL.
	ExtractMetadata(rawHTML string, pageURL string) (*ArticleMetadata, error)
}

// EstimateReadTime returns the reading time of text at WordsPerMinute,
// rounded up to the whole minute and rendered as "<N> min".
func EstimateReadTime(text string) string {
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return strconv.Itoa(minutes) + " min"
}
