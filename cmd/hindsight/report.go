package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/hindsight/internal/domain"
	"github.com/mtlprog/hindsight/internal/export"
	"github.com/mtlprog/hindsight/internal/render"
)

func reportAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one ACCOUNT argument", exitUsage)
	}
	account := c.Args().First()
	if !domain.IsValidAccountID(account) {
		return cli.Exit(fmt.Sprintf("invalid account address %q", account), exitUsage)
	}

	output := c.String("output")
	renderer, err := render.ForFormat(c.String("format"), output == "" && !c.Bool("no-color"))
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	if _, binary := renderer.(render.XLSX); binary && output == "" {
		return cli.Exit("xlsx format requires --output", exitUsage)
	}

	cfg, err := appConfig(c)
	if err != nil {
		return err
	}
	svc, err := newHistoryService(cfg)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}

	h, err := svc.Build(c.Context, account)
	if err != nil {
		return cli.Exit(err, exitFatal)
	}

	if err := writeReport(renderer, h, output, c.App.Writer); err != nil {
		return cli.Exit(err, exitFatal)
	}

	if cfg.SheetsEnabled() {
		writer, err := export.NewSheetsWriter(c.Context, cfg.GoogleSheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return cli.Exit(err, exitFatal)
		}
		if err := writer.Write(c.Context, h); err != nil {
			return cli.Exit(fmt.Errorf("exporting to sheets: %w", err), exitFatal)
		}
	}

	return nil
}

func writeReport(r render.Renderer, h domain.History, path string, stdout io.Writer) error {
	if path == "" {
		return r.Render(stdout, h)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.Render(f, h); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	slog.Info("report written", "path", path)
	return nil
}
