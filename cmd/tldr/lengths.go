package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/kdr/tldr"
)

// Run executes the lengths command.
func (c *LengthsCmd) Run(deps *Dependencies) error {
	profiles := tldr.LengthProfiles()

	if c.JSON {
		return json.NewEncoder(deps.Stdout).Encode(profiles)
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range profiles {
		suffix := ""
		if p.Length == tldr.DefaultLength {
			suffix = " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s%s\n", p.Length, p.Label, suffix)
	}
	return tw.Flush()
}
