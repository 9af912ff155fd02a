package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/hindsight/internal/backoff"
	"github.com/mtlprog/hindsight/internal/domain"
	"github.com/mtlprog/hindsight/internal/horizon"
)

// DefaultDustThreshold is the balance below which a holding is not worth pricing.
var DefaultDustThreshold = decimal.New(1, -3)

// HorizonClient defines the subset of Horizon API used by the portfolio Service.
type HorizonClient interface {
	FetchAccount(ctx context.Context, accountID string) (horizon.HorizonAccount, error)
}

// Holdings is the classified account snapshot.
type Holdings struct {
	// Priced are holdings that need a price series, in account order.
	Priced []domain.Holding
	// Dust are holdings below the materiality threshold.
	Dust []domain.Holding
	// Baseline is the account's balance of the quote asset itself.
	Baseline decimal.Decimal
}

// Service fetches an account and classifies its balances.
type Service struct {
	horizon       HorizonClient
	quote         domain.AssetInfo
	dustThreshold decimal.Decimal
	retry         backoff.Policy
}

// NewService creates a new portfolio Service. retry governs the account lookup.
func NewService(horizon HorizonClient, quote domain.AssetInfo, dustThreshold decimal.Decimal, retry backoff.Policy) *Service {
	return &Service{
		horizon:       horizon,
		quote:         quote,
		dustThreshold: dustThreshold,
		retry:         retry,
	}
}

// FetchHoldings loads the account snapshot and splits it into priced holdings,
// dust and the quote-asset baseline. LP shares are excluded.
func (s *Service) FetchHoldings(ctx context.Context, accountID string) (Holdings, error) {
	var account horizon.HorizonAccount
	err := s.retry.Do(ctx, "fetch account", func(ctx context.Context) error {
		var err error
		account, err = s.horizon.FetchAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return Holdings{}, fmt.Errorf("fetching holdings for %s: %w", accountID, err)
	}

	return s.classifyAll(account.Balances)
}

func (s *Service) classifyAll(balances []horizon.HorizonBalance) (Holdings, error) {
	result := Holdings{Baseline: decimal.Zero}

	var holdings []domain.Holding
	for i, b := range balances {
		h, err := Classify(i, b)
		if errors.Is(err, ErrPoolShares) {
			slog.Info("skipping liquidity pool shares", "pool", b.LiquidityPoolID, "balance", b.Balance)
			continue
		}
		if err != nil {
			return Holdings{}, err
		}

		if h.Asset.Equal(s.quote) {
			result.Baseline = result.Baseline.Add(h.Balance)
			continue
		}
		holdings = append(holdings, h)
	}

	result.Priced, result.Dust = lo.FilterReject(holdings, func(h domain.Holding, _ int) bool {
		return !h.Balance.LessThan(s.dustThreshold)
	})

	return result, nil
}
