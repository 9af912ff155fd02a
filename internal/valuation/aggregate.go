// Package valuation turns candles into dated values and merges per-asset
// contributions into one portfolio value series.
package valuation

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/hindsight/internal/domain"
)

// Partial is one holding's value at each bucket timestamp it has a candle for.
type Partial struct {
	Asset  string
	Values map[int64]decimal.Decimal
}

// Contribute values a holding at each candle's close. A later candle for the
// same bucket overwrites an earlier one.
func Contribute(h domain.Holding, candles []domain.Candle) Partial {
	p := Partial{
		Asset:  h.Asset.Canonical(),
		Values: make(map[int64]decimal.Decimal, len(candles)),
	}
	for _, c := range candles {
		p.Values[c.Timestamp] = h.Balance.Mul(c.Close)
	}
	return p
}

// Merge sums the contributions present at each timestamp and adds baseline.
// Timestamps are the union of all partials, emitted in ascending order.
// Two partials for the same asset do not add up: the later one wins.
func Merge(baseline decimal.Decimal, partials ...Partial) []domain.ValuePoint {
	byTime := make(map[int64]map[string]decimal.Decimal)
	for _, p := range partials {
		for ts, v := range p.Values {
			assets, ok := byTime[ts]
			if !ok {
				assets = make(map[string]decimal.Decimal)
				byTime[ts] = assets
			}
			assets[p.Asset] = v
		}
	}

	timestamps := lo.Keys(byTime)
	slices.Sort(timestamps)

	points := make([]domain.ValuePoint, 0, len(timestamps))
	for _, ts := range timestamps {
		total := baseline
		for _, v := range byTime[ts] {
			total = total.Add(v)
		}
		points = append(points, domain.ValuePoint{Timestamp: ts, Value: total})
	}
	return points
}
