package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/launchdash/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}
	addServeFlags(cmd)
	return cmd
}

// addServeFlags registers the serve flags. The root command takes them too
// since it serves when run without a subcommand.
func addServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("addr", "", "listen address (default 127.0.0.1:8050)")
	f.Int("width", 0, "chart image width in pixels (default 800)")
	f.Int("height", 0, "chart image height in pixels (default 500)")
}

// runServe loads the dataset and serves until SIGINT/SIGTERM or ctx ends.
// A dataset that fails to load stops start-up before anything listens.
func (a *app) runServe(ctx context.Context) error {
	d, err := a.loadDashboard()
	if err != nil {
		return err
	}

	ws := server.NewWebServer(server.WebServerConfig{
		Address:         a.cfg.Server.Addr,
		Dashboard:       d,
		Logger:          a.logger,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		Width:           a.cfg.Render.Width,
		Height:          a.cfg.Render.Height,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info().AnErr("cause", context.Cause(ctx)).Msg("stopping dashboard")
		return nil
	})
	return g.Wait()
}
