package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/morislaflame/clo-client/internal/httpapi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the loopback HTTP facade for a UI process",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Drop a stale credential before the first basket load so the
		// engine starts in the right mode.
		if err := deps.auth.Check(cmd.Context()); err != nil {
			deps.log.Warn("credential check failed", "error", err)
		}

		// Warm the in-memory basket before serving.
		if err := deps.basket.Load(cmd.Context()); err != nil {
			deps.log.Warn("initial basket load failed", "error", err)
		}

		router := httpapi.NewRouter(deps.basket, deps.orders, deps.cfg.RequestTimeout())
		srv := &http.Server{
			Addr:         deps.cfg.FacadeAddr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			deps.log.Info("facade listening", "addr", deps.cfg.FacadeAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		deps.log.Info("shutting down facade")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
