package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kdr/tldr"
)

// Ensure MetadataExtractor implements tldr.MetadataExtractor at compile time.
var _ tldr.MetadataExtractor = (*MetadataExtractor)(nil)

// source reads one candidate value for a metadata field.
type source func(doc *goquery.Document) string

// metaTag reads the content of a <meta> tag keyed by property or name.
// Open Graph tags are specified with property= but often published with name=.
func metaTag(key string) source {
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
	return func(doc *goquery.Document) string {
		var value string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			value = strings.TrimSpace(s.AttrOr("content", ""))
			return value == ""
		})
		return value
	}
}

// attr reads attribute name from the first element matching selector.
func attr(selector, name string) source {
	return func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find(selector).First().AttrOr(name, ""))
	}
}

// text reads the text of the first element matching selector.
func text(selector string) source {
	return func(doc *goquery.Document) string {
		return tldr.CollapseWhitespace(doc.Find(selector).First().Text())
	}
}

// Candidate sources per field, most specific first.
var (
	titleSources = []source{
		metaTag("og:title"),
		metaTag("twitter:title"),
		text("head title"),
	}
	descriptionSources = []source{
		metaTag("og:description"),
		metaTag("twitter:description"),
		metaTag("description"),
	}
	imageSources = []source{
		metaTag("og:image"),
		metaTag("og:image:url"),
		metaTag("og:image:secure_url"),
		metaTag("twitter:image"),
		metaTag("twitter:image:src"),
	}
	siteNameSources = []source{
		metaTag("og:site_name"),
		metaTag("application-name"),
	}
	publishedTimeSources = []source{
		metaTag("article:published_time"),
		metaTag("date"),
		attr(`meta[itemprop="datePublished"]`, "content"),
		attr("time[datetime]", "datetime"),
	}
	authorSources = []source{
		metaTag("article:author"),
		metaTag("author"),
		metaTag("twitter:creator"),
	}
)

// MetadataExtractor reads Open Graph, Twitter card, and standard meta tags.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata parses rawHTML and fills each field from the first
// candidate source that yields a value. EstimatedReadTime is left empty;
// it depends on the extracted text, not on head tags.
func (e *MetadataExtractor) ExtractMetadata(rawHTML string, pageURL string) (*tldr.ArticleMetadata, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, tldr.Errorf(tldr.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, tldr.Errorf(tldr.EINVALID, "failed to parse HTML: %v", err)
	}

	return &tldr.ArticleMetadata{
		URL:           pageURL,
		Title:         first(doc, titleSources),
		Description:   first(doc, descriptionSources),
		Image:         resolve(base, first(doc, imageSources)),
		SiteName:      first(doc, siteNameSources),
		PublishedTime: first(doc, publishedTimeSources),
		Author:        first(doc, authorSources),
	}, nil
}

func first(doc *goquery.Document, sources []source) string {
	for _, src := range sources {
		if v := src(doc); v != "" {
			return v
		}
	}
	return ""
}

// resolve makes ref absolute against base. Unparsable references are dropped.
func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
