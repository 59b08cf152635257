package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/savestate"
	"github.com/aretw0/savestate/internal/cli"
	"github.com/aretw0/savestate/internal/presentation/tui"
	httpAdapter "github.com/aretw0/savestate/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the save store and the expansion pipeline over HTTP, with Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		version := strings.TrimSpace(savestate.Version)
		handler := httpAdapter.NewHandler(app.Engine, app.Sessions,
			httpAdapter.WithLogger(app.Logger),
			httpAdapter.WithMetrics(app.Registry),
			httpAdapter.WithVersion(version),
		)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), version)
			app.Logger.Info("server listening", "addr", srv.Addr, "store", storeName(app))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			app.Logger.Info("shutting down", "signal", ctx.Signal())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "Server stopped gracefully.")
			return nil
		}
	},
}

func storeName(app *cli.App) string {
	if app.Config.UsesRedis() {
		return "redis"
	}
	return app.Config.StoreDir
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from SAVESTATE_LISTEN_ADDR or :8080)")
}
