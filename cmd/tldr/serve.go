package main

import (
	"fmt"

	tldrhttp "github.com/kdr/tldr/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled,
// then drains in-flight streams.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := tldrhttp.NewServer()
	s.Addr = deps.Config.Addr
	if c.Addr != "" {
		s.Addr = c.Addr
	}
	s.CORSOrigins = deps.Config.CORSOrigins
	s.ShutdownTimeout = deps.Config.ShutdownTimeout
	s.Summaries = deps.Summaries
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on port %d\n", s.Port())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(s.Serve)
	g.Go(func() error {
		<-ctx.Done()
		deps.Logger.Info("shutting down", "timeout", s.ShutdownTimeout)
		return s.Close()
	})

	return g.Wait()
}
