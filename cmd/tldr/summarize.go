package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kdr/tldr"
	tldrhttp "github.com/kdr/tldr/http"
	"mvdan.cc/xurls/v2"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	req, err := tldr.NewSummaryRequest(findURL(c.Input), c.Length)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tldr.ErrorMessage(err))
		return err
	}

	if c.Server != "" {
		return c.runRemote(deps, req)
	}

	article, err := deps.Summaries.Prepare(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tldr.ErrorMessage(err))
		return err
	}

	if !c.NoMeta {
		printMetadata(deps.Stdout, article.Metadata)
	}

	// The header is printed above; stream the summary text alone.
	body := *article
	body.Metadata = nil
	if _, err := deps.Summaries.Stream(deps.Ctx, deps.Stdout, &body); err != nil {
		fmt.Fprintln(deps.Stderr, "error: Failed to generate summary")
		return err
	}
	fmt.Fprintln(deps.Stdout)

	return nil
}

func (c *SummarizeCmd) runRemote(deps *Dependencies, req tldr.SummaryRequest) error {
	stream, err := tldrhttp.NewClient(c.Server).Summarize(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tldr.ErrorMessage(err))
		return err
	}
	defer stream.Close()

	if !c.NoMeta {
		printMetadata(deps.Stdout, stream.Metadata)
	}
	if _, err := io.Copy(deps.Stdout, stream.Summary); err != nil {
		fmt.Fprintln(deps.Stderr, "error: summary stream interrupted")
		return err
	}
	fmt.Fprintln(deps.Stdout)

	return nil
}

// urlPattern matches absolute http and https URLs in free-form text.
var urlPattern = xurls.Strict()

// findURL returns the first http(s) URL in args. When there is none the
// joined input is returned as-is so validation can report it.
func findURL(args []string) string {
	input := strings.Join(args, " ")
	for _, u := range urlPattern.FindAllString(input, -1) {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
	}
	return strings.TrimSpace(input)
}

// printMetadata writes a short header: title, a byline, and the description.
func printMetadata(w io.Writer, meta *tldr.ArticleMetadata) {
	if meta == nil {
		return
	}

	if meta.Title != "" {
		fmt.Fprintln(w, meta.Title)
	}

	var byline []string
	if meta.SiteName != "" {
		byline = append(byline, meta.SiteName)
	} else if domain := meta.Domain(); domain != "" {
		byline = append(byline, domain)
	}
	if meta.Author != "" {
		byline = append(byline, meta.Author)
	}
	if meta.PublishedTime != "" {
		byline = append(byline, meta.PublishedTime)
	}
	if meta.EstimatedReadTime != "" {
		byline = append(byline, meta.EstimatedReadTime+" read")
	}
	if len(byline) > 0 {
		fmt.Fprintln(w, strings.Join(byline, " · "))
	}

	if meta.Description != "" {
		fmt.Fprintln(w, meta.Description)
	}
	fmt.Fprintln(w)
}
