package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mtlprog/hindsight/internal/api"
	"github.com/mtlprog/hindsight/internal/domain"
)

var allKeys = []string{
	"HORIZON_URL", "HTTP_TIMEOUT", "QUOTE_ASSET", "PAGE_SIZE", "WINDOW_DAYS",
	"DUST_THRESHOLD", "RATE_LIMIT_BACKOFF", "RATE_LIMIT_MAX_RETRIES",
	"FETCH_CONCURRENCY", "HTTP_PORT", "HISTORY_CACHE_TTL", "GOOGLE_SHEET_ID",
	"GOOGLE_CREDENTIALS_JSON", "LOG_LEVEL", "LOG_FORMAT", "WATCH_ACCOUNTS",
	"REPORT_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.HorizonURL != "https://horizon.stellar.org" {
		t.Errorf("HorizonURL = %q, want default", cfg.HorizonURL)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
	if cfg.WindowDays != 364 {
		t.Errorf("WindowDays = %d, want 364", cfg.WindowDays)
	}
	if cfg.DustThreshold.String() != "0.001" {
		t.Errorf("DustThreshold = %s, want 0.001", cfg.DustThreshold)
	}
	if cfg.RateLimitBackoff != 60*time.Second {
		t.Errorf("RateLimitBackoff = %v, want 60s", cfg.RateLimitBackoff)
	}
	if cfg.RateLimitMaxRetries != 0 {
		t.Errorf("RateLimitMaxRetries = %d, want 0 (unbounded)", cfg.RateLimitMaxRetries)
	}
	if cfg.FetchConcurrency != 1 {
		t.Errorf("FetchConcurrency = %d, want 1", cfg.FetchConcurrency)
	}
	if cfg.HistoryCacheTTL != api.DefaultCacheTTL {
		t.Errorf("HistoryCacheTTL = %v, want %v", cfg.HistoryCacheTTL, api.DefaultCacheTTL)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() = true without credentials")
	}
	if len(cfg.WatchAccounts) != 0 {
		t.Errorf("WatchAccounts = %v, want none", cfg.WatchAccounts)
	}
	if cfg.ReportInterval != 24*time.Hour {
		t.Errorf("ReportInterval = %v, want 24h", cfg.ReportInterval)
	}

	quote, err := cfg.Quote()
	if err != nil {
		t.Fatalf("Quote() error: %v", err)
	}
	if !quote.Equal(domain.USDCAsset()) {
		t.Errorf("Quote() = %v, want USDC", quote)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("HORIZON_URL", "https://custom-horizon.example.com")
	t.Setenv("PAGE_SIZE", "200")
	t.Setenv("DUST_THRESHOLD", "0.5")
	t.Setenv("RATE_LIMIT_BACKOFF", "5s")
	t.Setenv("FETCH_CONCURRENCY", "4")
	t.Setenv("QUOTE_ASSET", "native")

	cfg := Load()

	if cfg.HorizonURL != "https://custom-horizon.example.com" {
		t.Errorf("HorizonURL = %q, want override", cfg.HorizonURL)
	}
	if cfg.PageSize != 200 {
		t.Errorf("PageSize = %d, want 200", cfg.PageSize)
	}
	if cfg.DustThreshold.String() != "0.5" {
		t.Errorf("DustThreshold = %s, want 0.5", cfg.DustThreshold)
	}
	if cfg.RateLimitBackoff != 5*time.Second {
		t.Errorf("RateLimitBackoff = %v, want 5s", cfg.RateLimitBackoff)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("FetchConcurrency = %d, want 4", cfg.FetchConcurrency)
	}
	quote, err := cfg.Quote()
	if err != nil || !quote.IsNative() {
		t.Errorf("Quote() = %v, %v; want native", quote, err)
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAGE_SIZE", "not-a-number")
	t.Setenv("RATE_LIMIT_BACKOFF", "invalid-duration")
	t.Setenv("DUST_THRESHOLD", "tiny")

	cfg := Load()

	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want default 100 on invalid input", cfg.PageSize)
	}
	if cfg.RateLimitBackoff != 60*time.Second {
		t.Errorf("RateLimitBackoff = %v, want default 60s on invalid input", cfg.RateLimitBackoff)
	}
	if cfg.DustThreshold.String() != "0.001" {
		t.Errorf("DustThreshold = %s, want default on invalid input", cfg.DustThreshold)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "PAGE_SIZE"},
		{"negative window", func(c *Config) { c.WindowDays = -1 }, "WINDOW_DAYS"},
		{"zero concurrency", func(c *Config) { c.FetchConcurrency = 0 }, "FETCH_CONCURRENCY"},
		{"bad quote", func(c *Config) { c.QuoteAsset = "USDC" }, "QUOTE_ASSET"},
		{"bad quote issuer", func(c *Config) { c.QuoteAsset = "USDC:GBAD" }, "QUOTE_ASSET"},
		{"negative retries", func(c *Config) { c.RateLimitMaxRetries = -1 }, "RATE_LIMIT_MAX_RETRIES"},
		{"zero backoff", func(c *Config) { c.RateLimitBackoff = 0 }, "RATE_LIMIT_BACKOFF"},
		{"bad watch account", func(c *Config) { c.WatchAccounts = []string{"GNOPE"} }, "WATCH_ACCOUNTS"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.PageSize = 0
	cfg.WindowDays = 0

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "PAGE_SIZE") || !strings.Contains(err.Error(), "WINDOW_DAYS") {
		t.Errorf("Validate() = %v, want both problems", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Config{LogLevel: "debug"}
	level, err := cfg.SlogLevel()
	if err != nil || level.String() != "DEBUG" {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hindsight.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_SHEET", "sheet-from-env")
	path := writeFile(t, `
page_size: 50
window_days: 30
dust_threshold: 0.01
rate_limit_backoff: 2m
google_sheet_id: ${TEST_SHEET}
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.PageSize)
	}
	if cfg.WindowDays != 30 {
		t.Errorf("WindowDays = %d, want 30", cfg.WindowDays)
	}
	if cfg.DustThreshold.String() != "0.01" {
		t.Errorf("DustThreshold = %s, want 0.01", cfg.DustThreshold)
	}
	if cfg.RateLimitBackoff != 2*time.Minute {
		t.Errorf("RateLimitBackoff = %v, want 2m", cfg.RateLimitBackoff)
	}
	if cfg.GoogleSheetID != "sheet-from-env" {
		t.Errorf("GoogleSheetID = %q, want expanded value", cfg.GoogleSheetID)
	}
	if cfg.HorizonURL != "https://horizon.stellar.org" {
		t.Errorf("HorizonURL = %q, want default", cfg.HorizonURL)
	}
}

func TestLoadFileEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAGE_SIZE", "150")
	path := writeFile(t, "PAGE_SIZE: 50\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.PageSize != 150 {
		t.Errorf("PageSize = %d, want env value 150", cfg.PageSize)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFile(writeFile(t, "- just\n- a list\n")); err == nil {
		t.Error("expected error for non-mapping yaml")
	}
}

func TestLoadWatchAccounts(t *testing.T) {
	clearEnv(t)
	t.Setenv("WATCH_ACCOUNTS", " "+domain.USDCIssuer+", ,GCNPEEJSTMX4QLS672IGAYWHGAECQGNSH7UDSS6EGXQLDPYELDVVJB2X ")

	cfg := Load()

	if len(cfg.WatchAccounts) != 2 || cfg.WatchAccounts[0] != domain.USDCIssuer {
		t.Errorf("WatchAccounts = %v", cfg.WatchAccounts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
