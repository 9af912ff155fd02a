package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode prints err and maps it to the process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "hindsight:", err)
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return exitFatal
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "hindsight",
		Usage:     "value an account's current Stellar holdings over the past year",
		ArgsUsage: "ACCOUNT",
		Writer:    stdout,
		ErrWriter: stderr,
		Metadata:  map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file; environment variables take precedence",
				EnvVars: []string{"HINDSIGHT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "markdown",
				Usage:   "report format: markdown, json or xlsx",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the report to `FILE` instead of stdout",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "number of asset pairs fetched at once (overrides FETCH_CONCURRENCY)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "print plain markdown without terminal styling",
			},
		},
		Before:         setupLogging,
		Action:         reportAction,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve histories over HTTP",
				Action: serveAction,
			},
		},
	}
}

// setupLogging resolves the configuration for every command and installs the
// slog handler selected by LOG_LEVEL and LOG_FORMAT.
func setupLogging(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	c.App.Metadata[configKey] = cfg
	level, err := cfg.SlogLevel()
	if err != nil {
		return cli.Exit(err, exitUsage)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(c.App.ErrWriter, opts)
	} else {
		handler = slog.NewTextHandler(c.App.ErrWriter, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
