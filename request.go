package tldr

import (
	"net/url"
	"strings"
)

// SummaryRequest asks for a summary of the article at URL.
type SummaryRequest struct {
	URL    string        `json:"url"`
	Length SummaryLength `json:"length,omitempty"`
}

// NewSummaryRequest builds a validated request from raw input.
// An empty length selects DefaultLength.
func NewSummaryRequest(rawURL, length string) (SummaryRequest, error) {
	req := SummaryRequest{URL: strings.TrimSpace(rawURL)}
	if err := req.validateURL(); err != nil {
		return SummaryRequest{}, err
	}

	l, err := ParseSummaryLength(strings.TrimSpace(length))
	if err != nil {
		return SummaryRequest{}, err
	}
	req.Length = l

	return req, nil
}

// Validate returns an error if the request contains invalid fields.
func (r *SummaryRequest) Validate() error {
	if err := r.validateURL(); err != nil {
		return err
	}
	if _, err := r.Length.Profile(); err != nil {
		return err
	}
	return nil
}

func (r *SummaryRequest) validateURL() error {
	if r.URL == "" {
		return Errorf(EINVALID, "URL is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "Invalid URL")
	}
	return nil
}
