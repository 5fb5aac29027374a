package main

import (
	"encoding/json"
	"fmt"

	"github.com/kdr/tldr"
)

// Run executes the meta command.
func (c *MetaCmd) Run(deps *Dependencies) error {
	req, err := tldr.NewSummaryRequest(findURL(c.Input), "")
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tldr.ErrorMessage(err))
		return err
	}

	article, err := deps.Summaries.Prepare(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tldr.ErrorMessage(err))
		return err
	}

	if article.Metadata == nil {
		fmt.Fprintln(deps.Stderr, "error: no metadata found")
		return tldr.Errorf(tldr.EINVALID, "no metadata found for %s", req.URL)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(article.Metadata)
}
