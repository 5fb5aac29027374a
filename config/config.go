// Package config loads service settings from the environment and builds
// the process logger.
package config

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/kdr/tldr"
	"github.com/lmittmann/tint"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Fetcher names.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Extractor names.
const (
	ExtractorPlain       = "plain"
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
	ExtractorMarkdown    = "markdown"
)

// Config holds every setting read from the environment.
type Config struct {
	Addr            string        `env:"TLDR_ADDR"             envDefault:":3000"`
	CORSOrigins     []string      `env:"TLDR_CORS_ORIGINS"     envSeparator:","`
	ShutdownTimeout time.Duration `env:"TLDR_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"TLDR_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"TLDR_LOG_FORMAT" envDefault:"text"`

	Provider      string `env:"TLDR_PROVIDER"     envDefault:"openai"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"TLDR_OPENAI_MODEL"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"TLDR_GEMINI_MODEL"`

	Fetcher      string        `env:"TLDR_FETCHER"       envDefault:"http"`
	FetchTimeout time.Duration `env:"TLDR_FETCH_TIMEOUT" envDefault:"10s"`
	Extractor    string        `env:"TLDR_EXTRACTOR"     envDefault:"plain"`
}

// Load reads .env files, when present, into the process environment and
// parses the result. Without arguments only ./.env is tried. Variables
// already set in the environment take precedence over file values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse builds a Config from environ alone, ignoring the process environment.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate returns an error if a setting names an unknown component.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return tldr.Errorf(tldr.EINVALID, "unknown provider %q", c.Provider)
	}
	switch c.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		return tldr.Errorf(tldr.EINVALID, "unknown fetcher %q", c.Fetcher)
	}
	switch c.Extractor {
	case ExtractorPlain, ExtractorReadability, ExtractorTrafilatura, ExtractorMarkdown:
	default:
		return tldr.Errorf(tldr.EINVALID, "unknown extractor %q", c.Extractor)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewLogger returns a logger writing to w. The "json" format emits one JSON
// object per line; anything else uses colorized console output.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, tldr.Errorf(tldr.EINVALID, "unknown log level %q", s)
}
