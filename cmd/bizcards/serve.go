package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizcards/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, deps, err := a.newService(ctx, false)
			if err != nil {
				return err
			}
			defer deps.Close()

			slog.Info("configuration loaded",
				"addr", addr,
				"layout", svc.DefaultLayout(),
				"render_max_concurrent", a.cfg.Render.MaxConcurrent,
				"history", svc.HistoryEnabled(),
				"rate_limit_per_minute", a.cfg.Security.RequestsPerMinute,
			)

			server := web.NewServer(svc, a.cfg)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			// Let in-flight card batches finish before closing connections.
			if status := svc.RenderStatus(); status.Active > 0 {
				slog.Info("waiting for renders to complete", "active", status.Active)
				if err := svc.WaitForRenders(shutdownCtx); err != nil {
					slog.Warn("renders did not complete in time", "error", err)
				} else {
					slog.Info("all renders completed")
				}
			}

			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default SERVER_HOST:SERVER_PORT)")

	return cmd
}
