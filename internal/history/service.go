// Package history reconstructs the historical quote-asset value of an
// account's current holdings.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/hindsight/internal/candle"
	"github.com/mtlprog/hindsight/internal/domain"
	"github.com/mtlprog/hindsight/internal/horizon"
	"github.com/mtlprog/hindsight/internal/portfolio"
	"github.com/mtlprog/hindsight/internal/valuation"
)

// DefaultWindowDays is how far back the series reaches.
const DefaultWindowDays = 364

// Skip reasons reported on SkippedHolding.
const (
	ReasonNoData       = "no trades against quote asset in window"
	ReasonPairNotFound = "pair not found"
	ReasonDust         = "below dust threshold"
)

// HoldingsSource loads the classified account snapshot.
type HoldingsSource interface {
	FetchHoldings(ctx context.Context, accountID string) (portfolio.Holdings, error)
}

// CandleFetcher returns the daily candles of a pair inside a window.
type CandleFetcher interface {
	Fetch(ctx context.Context, pair domain.AssetPair, start, end time.Time) ([]domain.Candle, error)
}

// Service assembles a History from holdings and candles.
type Service struct {
	holdings    HoldingsSource
	candles     CandleFetcher
	quote       domain.AssetInfo
	windowDays  int
	concurrency int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithWindowDays sets the length of the lookback window.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithConcurrency bounds the number of pairs fetched at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a history Service. Fetches are sequential by default.
func NewService(holdings HoldingsSource, candles CandleFetcher, quote domain.AssetInfo, opts ...Option) *Service {
	s := &Service{
		holdings:    holdings,
		candles:     candles,
		quote:       quote,
		windowDays:  DefaultWindowDays,
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type slot struct {
	partial valuation.Partial
	skipped *domain.SkippedHolding
}

// Build values every current holding of account over the lookback window.
// Pairs without data are reported in Skipped; any other failure aborts the
// whole run.
func (s *Service) Build(ctx context.Context, account string) (domain.History, error) {
	to := s.now().UTC()
	from := to.AddDate(0, 0, -s.windowDays)

	holdings, err := s.holdings.FetchHoldings(ctx, account)
	if err != nil {
		return domain.History{}, err
	}

	slog.Info("building history",
		"account", account,
		"priced", len(holdings.Priced),
		"dust", len(holdings.Dust),
		"baseline", holdings.Baseline.String(),
		"from", from.Format(time.DateOnly),
		"to", to.Format(time.DateOnly))

	slots := make([]slot, len(holdings.Priced))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, h := range holdings.Priced {
		g.Go(func() error {
			res, err := s.value(gctx, h, from, to)
			if err != nil {
				return err
			}
			slots[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.History{}, fmt.Errorf("building history for %s: %w", account, err)
	}

	var (
		partials []valuation.Partial
		skipped  []domain.SkippedHolding
	)
	for _, sl := range slots {
		if sl.skipped != nil {
			skipped = append(skipped, *sl.skipped)
			continue
		}
		partials = append(partials, sl.partial)
	}
	for _, h := range holdings.Dust {
		skipped = append(skipped, domain.SkippedHolding{Asset: h.Asset, Balance: h.Balance, Reason: ReasonDust})
	}

	points := valuation.Merge(holdings.Baseline, partials...)

	slog.Info("history built", "account", account, "points", len(points), "skipped", len(skipped))

	return domain.History{
		Account:  account,
		Quote:    s.quote,
		From:     from,
		To:       to,
		Baseline: holdings.Baseline,
		Points:   points,
		Skipped:  skipped,
	}, nil
}

func (s *Service) value(ctx context.Context, h domain.Holding, from, to time.Time) (slot, error) {
	pair := domain.AssetPair{Base: h.Asset, Counter: s.quote}

	candles, err := s.candles.Fetch(ctx, pair, from, to)
	if err != nil {
		reason := ""
		switch {
		case errors.Is(err, candle.ErrNoData):
			reason = ReasonNoData
		case errors.Is(err, horizon.ErrNotFound):
			reason = ReasonPairNotFound
		default:
			return slot{}, err
		}
		slog.Warn("skipping holding", "pair", pair.String(), "balance", h.Balance.String(), "reason", reason)
		return slot{skipped: &domain.SkippedHolding{Asset: h.Asset, Balance: h.Balance, Reason: reason}}, nil
	}

	slog.Debug("pair valued", "pair", pair.String(), "candles", len(candles))
	return slot{partial: valuation.Contribute(h, candles)}, nil
}
