package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kdr/tldr"
)

// Client calls a remote tldr server.
type Client struct {
	// URL is the server base URL, such as "http://localhost:3000".
	URL string

	HTTPClient *http.Client
}

// NewClient returns a Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// SummaryStream is an open summary response.
type SummaryStream struct {
	// Metadata is nil when the server sent none.
	Metadata *tldr.ArticleMetadata

	// Summary yields the summary text as the server streams it.
	Summary io.Reader

	body io.Closer
}

// Close releases the underlying connection.
func (s *SummaryStream) Close() error {
	return s.body.Close()
}

// Summarize requests a summary of req.URL. The caller must Close the
// returned stream. Rejections are returned as application errors carrying
// the server's message.
func (c *Client) Summarize(ctx context.Context, req tldr.SummaryRequest) (*SummaryStream, error) {
	payload, err := json.Marshal(summarizeRequest{URL: req.URL, Length: string(req.Length)})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/api/summarize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}

	meta, summary, err := tldr.ReadStream(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("read summary stream: %w", err)
	}

	return &SummaryStream{Metadata: meta, Summary: summary, body: resp.Body}, nil
}

// responseError converts a non-200 response into an application error.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest && message == "Failed to fetch article":
		return tldr.Errorf(tldr.EFETCH, "%s", message)
	case resp.StatusCode == http.StatusBadRequest:
		return tldr.Errorf(tldr.EINVALID, "%s", message)
	default:
		return tldr.Errorf(tldr.EGENERATE, "%s", message)
	}
}
