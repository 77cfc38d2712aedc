package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/siege/network"
	"github.com/lixenwraith/siege/parameter"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation behind an HTTP API with a websocket snapshot stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(*opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.Server.Addr
			}

			metrics := network.NewMetrics()
			s.world.Resources.Metrics.Sink = metrics

			hub := network.NewHub(s.world, s.cfg.Server.StreamInterval, metrics, s.log)
			router := network.NewRouter(network.RouterConfig{
				Sim:       s.world,
				Metrics:   metrics,
				Hub:       hub,
				Log:       s.log,
				RateLimit: s.cfg.Server.RateLimit,
				RateBurst: s.cfg.Server.RateBurst,
			})
			srv := network.NewServer(addr, router, hub, s.log)
			bound, err := srv.Start()
			if err != nil {
				return err
			}
			s.log.Info("serving", "addr", bound.String())

			s.clock.SetObserver(func(int64) { hub.Publish() })

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			s.clock.Start(ctx)
			<-ctx.Done()

			s.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (config server.addr when empty)")
	return cmd
}
