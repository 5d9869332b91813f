package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/logger"
	"github.com/templui/gymapp/internal/routes"
	"github.com/templui/gymapp/internal/snapshot"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		logger.Flush()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SnapshotOnStart {
		app.Snapshots.ImportAll(ctx)
	}

	scheduler, err := startScheduler(cfg.SnapshotSchedule, app)
	if err != nil {
		slog.Error("invalid snapshot schedule, periodic export disabled", "schedule", cfg.SnapshotSchedule, "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}

	if cfg.SnapshotOnShutdown {
		exportOnShutdown(app.Snapshots, cfg.ShutdownTimeout)
	}
	slog.Info("server stopped")
}

type exporter interface {
	ExportAll(ctx context.Context) snapshot.Report
}

// exportOnShutdown writes the final snapshot under its own deadline,
// independent of the server shutdown context.
func exportOnShutdown(e exporter, timeout time.Duration) snapshot.Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return e.ExportAll(ctx)
}

// startScheduler runs a periodic export when spec is set. Specs use the
// six-field cron format or descriptors such as "@every 15m".
func startScheduler(spec string, app *app.App) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		app.Snapshots.ExportAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()

	slog.Info("snapshot schedule enabled", "schedule", spec)
	return c, nil
}
