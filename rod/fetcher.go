// Package rod implements tldr.Fetcher with a headless Chrome browser for
// articles that only render their text through JavaScript.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/kdr/tldr"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxPages is the number of pages served before the browser is
// restarted. Chrome's memory baseline creeps up in a long-running process.
const DefaultMaxPages = 75

// Ensure Fetcher implements tldr.Fetcher at compile time.
var _ tldr.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout  time.Duration
	maxPages int
	pool     *browserPool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are loaded before the browser restarts.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	pool, err := newBrowserPool(launch, f.maxPages)
	if err != nil {
		return nil, err
	}
	f.pool = pool

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
// A document response outside 2xx is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	inst, err := f.pool.acquire()
	if err != nil {
		return "", err
	}
	defer f.pool.release(inst)

	page, err := inst.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	status := 0
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	waitDocument()

	if status != 0 && (status < 200 || status > 299) {
		return "", fmt.Errorf("HTTP %d for %s", status, url)
	}

	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
// Fetches already in progress finish before their browser is shut down.
func (f *Fetcher) Close() error {
	return f.pool.close()
}

func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{
		browser: browser,
		shutdown: func() error {
			err := browser.Close()
			l.Kill()
			return err
		},
	}, nil
}
