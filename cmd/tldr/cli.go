package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/kdr/tldr"
	"github.com/kdr/tldr/config"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *config.Config
	Logger    *slog.Logger
	Summaries tldr.SummaryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve     ServeCmd     `cmd:"" help:"Run the summarize HTTP API"`
	Summarize SummarizeCmd `cmd:"" help:"Summarize an article"`
	Meta      MetaCmd      `cmd:"" help:"Print the metadata of an article as JSON"`
	Lengths   LengthsCmd   `cmd:"" help:"List the available summary lengths"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (overrides TLDR_ADDR)"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	Input  []string `arg:"" help:"Article URL, or text containing one"`
	Length string   `short:"l" help:"Summary length (tweet, two_sentences, bullets, brief, detailed)"`
	Server string   `short:"s" help:"Base URL of a running tldr server to use instead of calling the model directly"`
	NoMeta bool     `help:"Print only the summary"`
}

// MetaCmd is the "meta" subcommand.
type MetaCmd struct {
	Input []string `arg:"" help:"Article URL, or text containing one"`
}

// LengthsCmd is the "lengths" subcommand.
type LengthsCmd struct {
	JSON bool `help:"Print as JSON"`
}
