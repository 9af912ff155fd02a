// Package worker runs scheduled history reports.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/hindsight/internal/domain"
)

// HistoryBuilder defines the interface for building histories.
type HistoryBuilder interface {
	Build(ctx context.Context, account string) (domain.History, error)
}

// Hook is called with each successfully built history.
type Hook func(ctx context.Context, h domain.History) error

// ReportWorker periodically rebuilds the histories of a fixed set of accounts.
type ReportWorker struct {
	builder  HistoryBuilder
	accounts []string
	interval time.Duration
	hooks    []Hook
}

// NewReportWorker creates a new ReportWorker. Hooks run in order after each build.
func NewReportWorker(builder HistoryBuilder, accounts []string, interval time.Duration, hooks ...Hook) *ReportWorker {
	return &ReportWorker{
		builder:  builder,
		accounts: accounts,
		interval: interval,
		hooks:    hooks,
	}
}

// runHooks passes h to every hook. A failing hook does not stop the others.
func (w *ReportWorker) runHooks(ctx context.Context, h domain.History) {
	for i, hook := range w.hooks {
		if err := hook(ctx, h); err != nil {
			slog.Error("ReportWorker: hook failed", "hook", i, "account", h.Account, "error", err)
		}
	}
}

// runOnce builds every account in turn. An account that fails is logged and
// retried on the next tick.
func (w *ReportWorker) runOnce(ctx context.Context) {
	for _, account := range w.accounts {
		if ctx.Err() != nil {
			return
		}
		h, err := w.builder.Build(ctx, account)
		if err != nil {
			slog.Error("ReportWorker: build failed", "account", account, "error", err)
			continue
		}
		slog.Info("ReportWorker: build completed", "account", account, "points", len(h.Points), "skipped", len(h.Skipped))
		w.runHooks(ctx, h)
	}
}

// Run starts the report worker loop. It blocks until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	slog.Info("ReportWorker: starting", "accounts", len(w.accounts), "interval", w.interval)

	// Build immediately on startup
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReportWorker: shutting down")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}
