package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/hindsight/internal/backoff"
	"github.com/mtlprog/hindsight/internal/candle"
	"github.com/mtlprog/hindsight/internal/config"
	"github.com/mtlprog/hindsight/internal/history"
	"github.com/mtlprog/hindsight/internal/horizon"
	"github.com/mtlprog/hindsight/internal/portfolio"
)

const configKey = "config"

// appConfig returns the configuration resolved once by the app's Before hook.
func appConfig(c *cli.Context) (config.Config, error) {
	cfg, ok := c.App.Metadata[configKey].(config.Config)
	if !ok {
		return config.Config{}, cli.Exit("configuration not loaded", exitFatal)
	}
	return cfg, nil
}

// loadConfig resolves settings from defaults, the --config file, the
// environment and finally command-line flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Load()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, cli.Exit(err, exitUsage)
		}
	}
	if c.IsSet("concurrency") {
		cfg.FetchConcurrency = c.Int("concurrency")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, cli.Exit(fmt.Errorf("invalid configuration: %w", err), exitUsage)
	}
	return cfg, nil
}

func newHistoryService(cfg config.Config) (*history.Service, error) {
	quote, err := cfg.Quote()
	if err != nil {
		return nil, err
	}

	client := horizon.NewClient(cfg.HorizonURL, cfg.HTTPTimeout)
	retry := backoff.Policy{
		Delay:      cfg.RateLimitBackoff,
		MaxRetries: cfg.RateLimitMaxRetries,
		Retryable:  horizon.IsRateLimited,
	}

	holdings := portfolio.NewService(client, quote, cfg.DustThreshold, retry)
	fetcher := candle.NewFetcher(client, cfg.PageSize, retry)

	return history.NewService(holdings, fetcher, quote,
		history.WithWindowDays(cfg.WindowDays),
		history.WithConcurrency(cfg.FetchConcurrency),
	), nil
}
