package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"vehicle-dashboard/api"
	"vehicle-dashboard/charts"
	"vehicle-dashboard/services"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the dashboard over HTTP",
	Long: `Loads and cleans the dataset once, then serves the HTML dashboard at /
and the JSON/PNG API under /api/v1. SIGHUP reloads the dataset.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, release, err := openDataset(ctx)
	if err != nil {
		return err
	}
	defer release()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(ds, services.NewInsightService(logger), charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight), logger)

	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go reloadOnHangup(ctx, ds)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dashboard listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func reloadOnHangup(ctx context.Context, ds *services.Dataset) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if _, err := ds.Reload(ctx); err != nil {
				logger.Error("Reload failed, keeping previous dataset: %v", err)
			}
		}
	}
}
