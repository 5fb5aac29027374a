package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/kdr/tldr"
	"github.com/kdr/tldr/config"
	"github.com/kdr/tldr/gemini"
	"github.com/kdr/tldr/goquery"
	"github.com/kdr/tldr/htmltomarkdown"
	tldrhttp "github.com/kdr/tldr/http"
	"github.com/kdr/tldr/openai"
	"github.com/kdr/tldr/readability"
	"github.com/kdr/tldr/rod"
	tldrslog "github.com/kdr/tldr/slog"
	"github.com/kdr/tldr/summarize"
	"github.com/kdr/tldr/trafilatura"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded from the environment when nil.
	Config *config.Config

	// Logger is built from Config when nil.
	Logger *slog.Logger

	// Summaries replaces the wired summary service, for end-to-end testing.
	Summaries tldr.SummaryService

	closers []io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases resources opened by Run.
func (m *Main) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	m.closers = nil
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tldr"),
		kong.Description("Summarize articles from the web."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tldr --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if m.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: check the TLDR_* environment variables")
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		m.Config = &cfg
	}
	deps.Config = m.Config

	if m.Logger == nil {
		m.Logger, err = config.NewLogger(stderr, m.Config.LogLevel, m.Config.LogFormat)
		if err != nil {
			return err
		}
	}
	deps.Logger = m.Logger

	defer m.Close()

	// Wire command-specific dependencies based on command
	switch {
	case m.Summaries != nil:
		deps.Summaries = m.Summaries
	case cmd == "serve" || (cmd == "summarize" && cli.Summarize.Server == ""):
		if deps.Summaries, err = m.newSummaryService(ctx, stderr, true); err != nil {
			return err
		}
	case cmd == "meta":
		if deps.Summaries, err = m.newSummaryService(ctx, stderr, false); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// newSummaryService wires the fetch, extract and generate pipeline from
// Config. The generator is skipped when withGenerator is false.
func (m *Main) newSummaryService(ctx context.Context, stderr io.Writer, withGenerator bool) (*summarize.Service, error) {
	fetcher, err := m.newFetcher()
	if err != nil {
		return nil, err
	}
	m.closers = append(m.closers, fetcher)

	svc := &summarize.Service{
		Fetcher:   tldrslog.NewLoggingFetcher(fetcher, m.Logger),
		Extractor: tldrslog.NewLoggingExtractor(newExtractor(m.Config.Extractor), m.Logger),
		Metadata:  goquery.NewMetadataExtractor(),
		Logger:    m.Logger,
	}

	if withGenerator {
		gen, err := m.newGenerator(ctx, stderr)
		if err != nil {
			return nil, err
		}
		svc.Generator = tldrslog.NewLoggingGenerator(gen, m.Logger)
	}

	return svc, nil
}

func (m *Main) newFetcher() (tldr.Fetcher, error) {
	if m.Config.Fetcher == config.FetcherBrowser {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(m.Config.FetchTimeout))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return fetcher, nil
	}
	return tldrhttp.NewFetcher(tldrhttp.WithTimeout(m.Config.FetchTimeout)), nil
}

func newExtractor(name string) tldr.Extractor {
	switch name {
	case config.ExtractorReadability:
		return readability.NewExtractor()
	case config.ExtractorTrafilatura:
		return trafilatura.NewExtractor()
	case config.ExtractorMarkdown:
		return htmltomarkdown.NewExtractor(readability.NewExtractor(), htmltomarkdown.NewConverter())
	default:
		return goquery.NewTextExtractor()
	}
}

func (m *Main) newGenerator(ctx context.Context, stderr io.Writer) (tldr.Generator, error) {
	cfg := m.Config

	if cfg.Provider == config.ProviderGemini {
		if cfg.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewGenerator(client, cfg.GeminiModel), nil
	}

	if cfg.OpenAIAPIKey == "" {
		fmt.Fprintln(stderr, "OPENAI_API_KEY environment variable not set. Set TLDR_PROVIDER=gemini to use Gemini instead.")
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	var opts []option.RequestOption
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	return openai.NewGenerator(openai.NewClient(cfg.OpenAIAPIKey, opts...), cfg.OpenAIModel), nil
}
