package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/naka-gawa/github-insights/internal/api"
	"github.com/naka-gawa/github-insights/internal/lib/sl"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP gateway",
	Long:  `Starts the HTTP gateway serving the /api/github endpoints until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.cfg.HTTPServer.Address = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		handler := api.NewHandler(a.logger, a.aggregator)
		srv := &http.Server{
			Addr:         a.cfg.HTTPServer.Address,
			Handler:      api.NewRouter(a.logger, handler),
			ReadTimeout:  a.cfg.HTTPServer.ReadTimeout,
			WriteTimeout: a.cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  a.cfg.HTTPServer.IdleTimeout,
		}

		serveErr := make(chan error, 1)
		go func() {
			a.logger.Info("starting http server", slog.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				a.logger.Error("http server failed", sl.Err(err))
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("forced shutdown", sl.Err(err))
			return err
		}
		a.logger.Info("http server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address, overrides HTTP_ADDR")
}
