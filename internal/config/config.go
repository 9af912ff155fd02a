package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/hindsight/internal/api"
	"github.com/mtlprog/hindsight/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	HorizonURL            string
	HTTPTimeout           time.Duration
	QuoteAsset            string
	PageSize              int
	WindowDays            int
	DustThreshold         decimal.Decimal
	RateLimitBackoff      time.Duration
	RateLimitMaxRetries   int
	FetchConcurrency      int
	HTTPPort              string
	HistoryCacheTTL       time.Duration
	WatchAccounts         []string
	ReportInterval        time.Duration
	GoogleSheetID         string
	GoogleCredentialsJSON string
	LogLevel              string
	LogFormat             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return load(os.LookupEnv)
}

// lookup resolves a configuration key to its raw value.
type lookup func(key string) (string, bool)

func load(l lookup) Config {
	return Config{
		HorizonURL:            l.orDefault("HORIZON_URL", "https://horizon.stellar.org"),
		HTTPTimeout:           l.orDefaultDuration("HTTP_TIMEOUT", 30*time.Second),
		QuoteAsset:            l.orDefault("QUOTE_ASSET", domain.USDCAsset().Canonical()),
		PageSize:              l.orDefaultInt("PAGE_SIZE", 100),
		WindowDays:            l.orDefaultInt("WINDOW_DAYS", 364),
		DustThreshold:         l.orDefaultDecimal("DUST_THRESHOLD", decimal.New(1, -3)),
		RateLimitBackoff:      l.orDefaultDuration("RATE_LIMIT_BACKOFF", 60*time.Second),
		RateLimitMaxRetries:   l.orDefaultInt("RATE_LIMIT_MAX_RETRIES", 0),
		FetchConcurrency:      l.orDefaultInt("FETCH_CONCURRENCY", 1),
		HTTPPort:              l.orDefault("HTTP_PORT", "8080"),
		HistoryCacheTTL:       l.orDefaultDuration("HISTORY_CACHE_TTL", api.DefaultCacheTTL),
		WatchAccounts:         l.orDefaultList("WATCH_ACCOUNTS"),
		ReportInterval:        l.orDefaultDuration("REPORT_INTERVAL", 24*time.Hour),
		GoogleSheetID:         l.orDefault("GOOGLE_SHEET_ID", ""),
		GoogleCredentialsJSON: l.orDefault("GOOGLE_CREDENTIALS_JSON", ""),
		LogLevel:              l.orDefault("LOG_LEVEL", "info"),
		LogFormat:             l.orDefault("LOG_FORMAT", "text"),
	}
}

// Quote returns the parsed quote asset.
func (c Config) Quote() (domain.AssetInfo, error) {
	return domain.ParseAsset(c.QuoteAsset)
}

// SheetsEnabled reports whether Google Sheets export is configured.
func (c Config) SheetsEnabled() bool {
	return c.GoogleSheetID != "" && c.GoogleCredentialsJSON != ""
}

// Validate reports every setting the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Quote(); err != nil {
		errs = append(errs, fmt.Errorf("QUOTE_ASSET: %w", err))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("WINDOW_DAYS must be positive, got %d", c.WindowDays))
	}
	if c.FetchConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency))
	}
	if c.DustThreshold.IsNegative() {
		errs = append(errs, fmt.Errorf("DUST_THRESHOLD must not be negative, got %s", c.DustThreshold))
	}
	if c.RateLimitBackoff <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BACKOFF must be positive, got %s", c.RateLimitBackoff))
	}
	if c.RateLimitMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX_RETRIES must not be negative, got %d", c.RateLimitMaxRetries))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout))
	}
	for _, account := range c.WatchAccounts {
		if !domain.IsValidAccountID(account) {
			errs = append(errs, fmt.Errorf("WATCH_ACCOUNTS: invalid account address %q", account))
		}
	}
	if len(c.WatchAccounts) > 0 && c.ReportInterval <= 0 {
		errs = append(errs, fmt.Errorf("REPORT_INTERVAL must be positive, got %s", c.ReportInterval))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func (l lookup) orDefault(key, defaultVal string) string {
	if v, ok := l(key); ok && v != "" {
		return v
	}
	return defaultVal
}

func (l lookup) orDefaultInt(key string, defaultVal int) int {
	if v, ok := l(key); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			slog.Warn("invalid integer config value, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func (l lookup) orDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := l(key); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			slog.Warn("invalid duration config value, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func (l lookup) orDefaultDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if v, ok := l(key); ok && v != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			slog.Warn("invalid decimal config value, using default", "key", key, "value", v, "default", defaultVal.String())
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// orDefaultList splits a comma-separated value, dropping blanks.
func (l lookup) orDefaultList(key string) []string {
	v, ok := l(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
