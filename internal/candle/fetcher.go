package candle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/hindsight/internal/backoff"
	"github.com/mtlprog/hindsight/internal/domain"
	"github.com/mtlprog/hindsight/internal/horizon"
)

var (
	// ErrNoData means the pair has no trades against the quote asset in the window.
	ErrNoData = errors.New("no candles in window")
	// ErrStalledCursor means a page did not move the cursor forward.
	ErrStalledCursor = errors.New("pagination cursor did not advance")
)

// cursorBuffer is added past the last returned bucket so the boundary candle
// is not fetched twice; it is also the minimum window worth requesting.
const cursorBuffer = time.Hour

// Source is the upstream candle API.
type Source interface {
	FetchTradeAggregations(ctx context.Context, req horizon.TradeAggregationsRequest) ([]horizon.TradeAggregation, error)
}

// Fetcher retrieves the complete daily candle history of a pair, page by page.
type Fetcher struct {
	source   Source
	pageSize int
	retry    backoff.Policy
}

// NewFetcher creates a Fetcher. retry decides how rate-limited pages are retried.
func NewFetcher(source Source, pageSize int, retry backoff.Policy) *Fetcher {
	if pageSize <= 0 || pageSize > horizon.MaxPageLimit {
		pageSize = horizon.MaxPageLimit
	}
	return &Fetcher{source: source, pageSize: pageSize, retry: retry}
}

// Fetch returns all daily candles of pair between start and end, oldest first.
// It returns ErrNoData when the very first page is empty.
func (f *Fetcher) Fetch(ctx context.Context, pair domain.AssetPair, start, end time.Time) ([]domain.Candle, error) {
	endMs := end.UnixMilli()
	cursor := start.UnixMilli()
	buffer := cursorBuffer.Milliseconds()

	var candles []domain.Candle
	for endMs-cursor > buffer {
		req := horizon.TradeAggregationsRequest{
			Base:       pair.Base,
			Counter:    pair.Counter,
			Resolution: domain.Resolution,
			StartTime:  cursor,
			EndTime:    endMs,
			Limit:      f.pageSize,
		}

		var rows []horizon.TradeAggregation
		err := f.retry.Do(ctx, "fetch candles "+pair.String(), func(ctx context.Context) error {
			var err error
			rows, err = f.source.FetchTradeAggregations(ctx, req)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("fetching candles for %s: %w", pair, err)
		}

		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			c, err := toCandle(row)
			if err != nil {
				return nil, fmt.Errorf("decoding candle for %s: %w", pair, err)
			}
			candles = append(candles, c)
		}
		slog.Debug("fetched candle page", "pair", pair.String(), "rows", len(rows), "total", len(candles))

		next := int64(rows[len(rows)-1].Timestamp) + buffer
		if next <= cursor {
			return nil, fmt.Errorf("fetching candles for %s at %d: %w", pair, cursor, ErrStalledCursor)
		}
		cursor = next
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: %w", pair, ErrNoData)
	}
	return candles, nil
}

func toCandle(r horizon.TradeAggregation) (domain.Candle, error) {
	c := domain.Candle{
		Timestamp:  int64(r.Timestamp),
		TradeCount: int64(r.TradeCount),
	}

	fields := []struct {
		name string
		raw  string
		dest *decimal.Decimal
	}{
		{"open", r.Open, &c.Open},
		{"high", r.High, &c.High},
		{"low", r.Low, &c.Low},
		{"close", r.Close, &c.Close},
		{"avg", r.Avg, &c.Avg},
		{"base_volume", r.BaseVolume, &c.BaseVolume},
		{"counter_volume", r.CounterVolume, &c.CounterVolume},
	}
	for _, f := range fields {
		d, err := domain.ParseAmount(f.raw)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("candle %d field %s: %w", c.Timestamp, f.name, err)
		}
		*f.dest = d
	}
	return c, nil
}
