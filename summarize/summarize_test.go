package summarize_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"testing"

	"github.com/kdr/tldr"
	"github.com/kdr/tldr/mock"
	"github.com/kdr/tldr/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Post</title></head><body><p>one two three</p></body></html>`

func newService(gen *mock.Generator) *summarize.Service {
	return &summarize.Service{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return articleHTML, nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*tldr.ExtractResult, error) {
				return &tldr.ExtractResult{Title: "Post", Text: "one two three"}, nil
			},
		},
		Metadata: &mock.MetadataExtractor{
			ExtractMetadataFn: func(html, pageURL string) (*tldr.ArticleMetadata, error) {
				return &tldr.ArticleMetadata{URL: pageURL, Title: "OG Post"}, nil
			},
		},
		Generator: gen,
	}
}

func unusedGenerator(t *testing.T) *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
			t.Error("generator must not be called")
			return mock.Fragments(nil)
		},
	}
}

func TestService_Prepare(t *testing.T) {
	t.Parallel()

	t.Run("returns text, profile and metadata", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		article, err := svc.Prepare(context.Background(), tldr.SummaryRequest{URL: "https://example.com/post"})

		require.NoError(t, err)
		assert.Equal(t, "one two three", article.Text)
		assert.Equal(t, tldr.LengthBrief, article.Profile.Length)
		require.NotNil(t, article.Metadata)
		assert.Equal(t, "OG Post", article.Metadata.Title)
		assert.Equal(t, "1 min", article.Metadata.EstimatedReadTime)
	})

	t.Run("rejects missing URL", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		_, err := svc.Prepare(context.Background(), tldr.SummaryRequest{})

		assert.Equal(t, tldr.EINVALID, tldr.ErrorCode(err))
		assert.Equal(t, "URL is required", tldr.ErrorMessage(err))
	})

	t.Run("rejects unknown length", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		_, err := svc.Prepare(context.Background(), tldr.SummaryRequest{URL: "https://example.com", Length: "epic"})

		assert.Equal(t, tldr.EINVALID, tldr.ErrorCode(err))
		assert.Equal(t, "Invalid length", tldr.ErrorMessage(err))
	})

	t.Run("wraps fetch failure", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		svc.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("HTTP 404 for " + url)
			},
		}
		_, err := svc.Prepare(context.Background(), tldr.SummaryRequest{URL: "https://example.com/missing"})

		assert.Equal(t, tldr.EFETCH, tldr.ErrorCode(err))
		assert.Equal(t, "Failed to fetch article", tldr.ErrorMessage(err))
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("omits metadata when extraction fails", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		svc.Metadata = &mock.MetadataExtractor{
			ExtractMetadataFn: func(html, pageURL string) (*tldr.ArticleMetadata, error) {
				return nil, errors.New("bad head")
			},
		}
		article, err := svc.Prepare(context.Background(), tldr.SummaryRequest{URL: "https://example.com/post"})

		require.NoError(t, err)
		assert.Nil(t, article.Metadata)
	})

	t.Run("reports extraction failure as internal", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		svc.Extractor = &mock.Extractor{
			ExtractFn: func(html string) (*tldr.ExtractResult, error) {
				return nil, tldr.Errorf(tldr.EINVALID, "empty HTML input")
			},
		}
		_, err := svc.Prepare(context.Background(), tldr.SummaryRequest{URL: "https://example.com/post"})

		require.Error(t, err)
		assert.Equal(t, tldr.EINTERNAL, tldr.ErrorCode(err))
		assert.Contains(t, err.Error(), "empty HTML input")
	})

	t.Run("rejects page without text before generation", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		svc.Extractor = &mock.Extractor{
			ExtractFn: func(html string) (*tldr.ExtractResult, error) {
				return &tldr.ExtractResult{Title: "Empty"}, nil
			},
		}
		_, err := svc.Summarize(context.Background(), io.Discard, tldr.SummaryRequest{URL: "https://example.com/post"})

		require.Error(t, err)
		assert.Equal(t, tldr.EINTERNAL, tldr.ErrorCode(err))
	})

	t.Run("falls back to extracted title", func(t *testing.T) {
		t.Parallel()

		svc := newService(unusedGenerator(t))
		svc.Metadata = &mock.MetadataExtractor{
			ExtractMetadataFn: func(html, pageURL string) (*tldr.ArticleMetadata, error) {
				return &tldr.ArticleMetadata{URL: pageURL}, nil
			},
		}
		article, err := svc.Prepare(context.Background(), tldr.SummaryRequest{URL: "https://example.com/post"})

		require.NoError(t, err)
		assert.Equal(t, "Post", article.Metadata.Title)
	})
}

func TestService_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("streams metadata then summary", func(t *testing.T) {
		t.Parallel()

		var got tldr.GenerateRequest
		svc := newService(&mock.Generator{
			GenerateFn: func(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
				got = req
				return mock.Fragments(nil, "Short ", "summary.")
			},
		})

		var buf bytes.Buffer
		n, err := svc.Summarize(context.Background(), &buf, tldr.SummaryRequest{URL: "https://example.com/post", Length: tldr.LengthTweet})

		require.NoError(t, err)
		assert.Equal(t, int64(buf.Len()), n)
		assert.Equal(t, "one two three", got.Text)
		assert.Equal(t, 100, got.Profile.MaxTokens)

		head, summary, found := strings.Cut(buf.String(), tldr.Delimiter)
		require.True(t, found)
		assert.Contains(t, head, `"title":"OG Post"`)
		assert.Equal(t, "Short summary.", summary)
	})

	t.Run("error before first fragment writes nothing", func(t *testing.T) {
		t.Parallel()

		svc := newService(&mock.Generator{
			GenerateFn: func(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
				return mock.Fragments(tldr.Errorf(tldr.EGENERATE, "quota"))
			},
		})

		var buf bytes.Buffer
		n, err := svc.Summarize(context.Background(), &buf, tldr.SummaryRequest{URL: "https://example.com/post"})

		require.Error(t, err)
		assert.Zero(t, n)
		assert.Zero(t, buf.Len())
	})

	t.Run("mid-stream error keeps single metadata segment", func(t *testing.T) {
		t.Parallel()

		svc := newService(&mock.Generator{
			GenerateFn: func(ctx context.Context, req tldr.GenerateRequest) iter.Seq2[string, error] {
				return mock.Fragments(errors.New("connection reset"), "Partial")
			},
		})

		var buf bytes.Buffer
		n, err := svc.Summarize(context.Background(), &buf, tldr.SummaryRequest{URL: "https://example.com/post"})

		require.Error(t, err)
		assert.Positive(t, n)
		assert.Equal(t, 1, strings.Count(buf.String(), tldr.Delimiter))
		assert.True(t, strings.HasSuffix(buf.String(), "Partial"))
	})
}
