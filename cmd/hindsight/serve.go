package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/hindsight/internal/api"
	"github.com/mtlprog/hindsight/internal/export"
	"github.com/mtlprog/hindsight/internal/worker"
)

func serveAction(c *cli.Context) error {
	ctx, stop := context.WithCancel(c.Context)
	defer stop()

	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	svc, err := newHistoryService(cfg)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}

	handler := api.NewHandler(svc, cfg.HistoryCacheTTL)
	srv := api.NewServer(cfg.HTTPPort, handler)

	if len(cfg.WatchAccounts) > 0 {
		hooks := []worker.Hook{handler.Prime}
		if cfg.SheetsEnabled() {
			var sheets export.SheetWriter
			sheets, err = export.NewSheetsWriter(ctx, cfg.GoogleSheetID, cfg.GoogleCredentialsJSON)
			if err != nil {
				return cli.Exit(err, exitFatal)
			}
			hooks = append(hooks, sheets.Write)
		}
		go worker.NewReportWorker(svc, cfg.WatchAccounts, cfg.ReportInterval, hooks...).Run(ctx)
	}

	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return cli.Exit(err, exitFatal)
	}

	slog.Info("shutdown complete")
	return nil
}
