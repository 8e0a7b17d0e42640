package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/server"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			rt, err := c.runtime(ctx)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr: addr,
				Handler: server.NewHandler(rt,
					server.WithLogger(c.logger.Named("http")),
					server.WithRequestTimeout(c.cfg.Server.RequestTimeout),
				),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.logger.Info("listening", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err = <-errCh:
			case <-ctx.Done():
				c.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				err = srv.Shutdown(shutdownCtx)
				cancel()
			}
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			if cerr := rt.Close(); cerr != nil && err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
