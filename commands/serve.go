package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"authcheck-cli/web"
)

// ServeCmd handles the `serve` command
type ServeCmd struct {
	Coord      Coordinator
	Gatherer   prometheus.Gatherer
	Addr       string
	RunOnStart bool
	Log        zerolog.Logger
}

// Execute serves the web interface until SIGINT or SIGTERM
func (c *ServeCmd) Execute(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := web.NewServer(c.Coord, c.Gatherer, c.Log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, c.Addr)
	})
	if c.RunOnStart {
		g.Go(func() error {
			report, err := c.Coord.Trigger(gctx)
			if err != nil {
				// the page keeps showing the previous report
				c.Log.Error().Err(err).Msg("initial run failed")
				return nil
			}
			c.Log.Info().Str("summary", report.Summary()).Msg("initial run finished")
			return nil
		})
	}
	return g.Wait()
}
